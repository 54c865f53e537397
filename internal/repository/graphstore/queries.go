package graphstore

// vectorQuery finds the nearest indexed knowledge nodes by vector
// distance and enriches each hit with a bounded set of related
// entities.
const vectorQuery = `
CALL db.index.vector.queryNodes($index_name, $num_neighbors, $embedding)
YIELD node, score
WITH node AS k, score AS similarity_score

OPTIONAL MATCH (k)-[:ASSIGNED_TO]->(assignee:Assignee)
OPTIONAL MATCH (k)-[:WRITTEN_BY]->(author:Author)
OPTIONAL MATCH (k)-[:HAS_KEYWORD]->(keyword:Keyword)
OPTIONAL MATCH (k)-[:IN_SUBDOMAIN]->(subdomain:Subdomain)

RETURN
    k.id AS id,
    similarity_score,
    k.title AS title,
    k.domain AS domain,
    k.knowledge_type AS knowledge_type,
    k.publication_date AS publication_date,
    k.country AS country,
    k.data_quality_score AS data_quality_score,
    COLLECT(DISTINCT assignee.name)[..5] AS assignees,
    COLLECT(DISTINCT author.name)[..5] AS authors,
    COLLECT(DISTINCT keyword.name)[..10] AS keywords,
    COLLECT(DISTINCT subdomain.name)[..5] AS subdomains
ORDER BY similarity_score DESC
LIMIT $limit
`

// fallbackQuery is the quality-ordered scan used when the vector query
// failed or returned nothing. Hits carry a fixed nominal score.
const fallbackQuery = `
MATCH (k:Knowledge)
WHERE k.title IS NOT NULL

WITH k ORDER BY k.data_quality_score DESC LIMIT 20

OPTIONAL MATCH (k)-[:ASSIGNED_TO]->(assignee:Assignee)
OPTIONAL MATCH (k)-[:HAS_KEYWORD]->(keyword:Keyword)

RETURN
    COALESCE(k.id, toString(elementId(k))) AS id,
    0.1 AS similarity_score,
    k.title AS title,
    k.domain AS domain,
    k.knowledge_type AS knowledge_type,
    k.publication_date AS publication_date,
    COLLECT(DISTINCT assignee.name)[..5] AS assignees,
    COLLECT(DISTINCT keyword.name)[..10] AS keywords
LIMIT $limit
`
