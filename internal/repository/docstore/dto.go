package docstore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/research-kreat/kreat-retrieval/internal/domain"
)

// candidateDoc mirrors the projected fields of a stored document.
// Identifier and date fields are decoded loosely: collections hold a
// mix of ObjectIDs/strings and string/datetime values.
type candidateDoc struct {
	ID              any      `bson:"_id"`
	Title           string   `bson:"title"`
	Abstract        string   `bson:"abstract"`
	PublicationDate any      `bson:"publication_date"`
	Keywords        []string `bson:"keywords"`
	URL             string   `bson:"url"`
}

func (d candidateDoc) toCandidate() domain.Candidate {
	return domain.Candidate{
		ID:              stringify(d.ID),
		Title:           d.Title,
		Body:            d.Abstract,
		PublicationDate: stringify(d.PublicationDate),
		Keywords:        d.Keywords,
		URL:             d.URL,
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
