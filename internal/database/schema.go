// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package database

import "fmt"

const createMetaTableSQL = `
CREATE TABLE IF NOT EXISTS index_meta (
	id INTEGER PRIMARY KEY,
	model_id VARCHAR NOT NULL,
	dimension INTEGER NOT NULL,
	records INTEGER NOT NULL,
	built_at TIMESTAMP NOT NULL
)`

const (
	dropAssessmentsSQL = `DROP TABLE IF EXISTS assessments`
	clearMetaSQL       = `DELETE FROM index_meta`
	insertMetaSQL      = `INSERT INTO index_meta (id, model_id, dimension, records, built_at) VALUES (1, ?, ?, ?, ?)`
	selectMetaSQL      = `SELECT model_id, dimension, records, built_at FROM index_meta WHERE id = 1`
	countSQL           = `SELECT COUNT(*) FROM assessments`

	recordColumns = `seq, url, name, description, duration, adaptive_support, remote_support, test_type`

	selectRecordsSQL = `SELECT ` + recordColumns + ` FROM assessments ORDER BY seq`
)

// createAssessmentsSQL returns the DDL for a snapshot of dimension dim.
// test_type holds a JSON array so records round-trip without list scanning.
func createAssessmentsSQL(dim int) string {
	return fmt.Sprintf(`
CREATE TABLE assessments (
	seq INTEGER NOT NULL,
	id VARCHAR NOT NULL,
	url VARCHAR PRIMARY KEY,
	name VARCHAR NOT NULL,
	description VARCHAR,
	duration VARCHAR,
	adaptive_support BOOLEAN NOT NULL,
	remote_support BOOLEAN NOT NULL,
	test_type VARCHAR NOT NULL,
	embedding FLOAT[%d] NOT NULL
)`, dim)
}

func insertAssessmentSQL(dim int) string {
	return fmt.Sprintf(`INSERT INTO assessments
	(seq, id, url, name, description, duration, adaptive_support, remote_support, test_type, embedding)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CAST(? AS FLOAT[%d]))`, dim)
}

// unscoredSQL lists records in catalog order with a zero score. A zero-norm
// query has no direction, so every record scores 0.
func unscoredSQL() string {
	return fmt.Sprintf(`SELECT %s,
	CAST(0 AS DOUBLE) AS score
FROM assessments
ORDER BY seq ASC
LIMIT ?`, recordColumns)
}

// searchSQL ranks every record by cosine similarity to the bound query vector.
// Ties on score resolve by catalog insertion order.
func searchSQL(dim int) string {
	return fmt.Sprintf(`SELECT %s,
	array_cosine_similarity(embedding, CAST(? AS FLOAT[%d])) AS score
FROM assessments
ORDER BY score DESC, seq ASC
LIMIT ?`, recordColumns, dim)
}
