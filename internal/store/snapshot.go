package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"primekg/kgx/internal/dataset"
	"primekg/kgx/internal/graph"
)

const (
	metaFingerprint = "fingerprint"
	metaBuiltAt     = "built_at"
	metaNodeCount   = "node_count"
	metaEdgeCount   = "edge_count"
)

// SaveGraph replaces the stored snapshot with g and records the source
// fingerprint. The write is one transaction, so readers never observe a
// half-written snapshot.
func (s *Store) SaveGraph(g *graph.Graph, fp dataset.Fingerprint) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	// Edges reference nodes, so clear them first
	for _, stmt := range []string{"DELETE FROM edges", "DELETE FROM nodes", "DELETE FROM meta"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing previous snapshot: %w", err)
		}
	}

	insNode, err := tx.Prepare(`
		INSERT INTO nodes (node_index, node_id, node_type, node_name, node_source, features)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer insNode.Close()

	for _, idx := range g.NodeIndexes() {
		n := g.Nodes[idx]
		var features any
		if len(n.Features) > 0 {
			b, err := json.Marshal(n.Features)
			if err != nil {
				return fmt.Errorf("encoding features for node %d: %w", idx, err)
			}
			features = string(b)
		}
		if _, err := insNode.Exec(n.Index, n.ID, n.Type, n.Name, n.Source, features); err != nil {
			return fmt.Errorf("inserting node %d: %w", idx, err)
		}
	}

	insEdge, err := tx.Prepare(`
		INSERT INTO edges (ord, source, target, relation, display_relation)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer insEdge.Close()

	for ord, e := range g.Edges {
		if _, err := insEdge.Exec(ord, e.Source, e.Target, e.Relation, e.DisplayRelation); err != nil {
			return fmt.Errorf("inserting edge %d: %w", ord, err)
		}
	}

	fpJSON, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("encoding fingerprint: %w", err)
	}
	builtAt := strconv.FormatInt(time.Now().UnixMilli(), 10)
	for key, value := range map[string]string{
		metaFingerprint: string(fpJSON),
		metaBuiltAt:     builtAt,
		metaNodeCount:   strconv.Itoa(len(g.Nodes)),
		metaEdgeCount:   strconv.Itoa(len(g.Edges)),
	} {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("writing meta %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// scanNodeAttrs scans a nodes row. The row must have all 6 columns in
// standard order.
func scanNodeAttrs(scanner interface{ Scan(dest ...any) error }) (*graph.NodeAttrs, error) {
	var n graph.NodeAttrs
	var features sql.NullString
	if err := scanner.Scan(&n.Index, &n.ID, &n.Type, &n.Name, &n.Source, &features); err != nil {
		return nil, err
	}
	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &n.Features); err != nil {
			return nil, fmt.Errorf("decoding features for node %d: %w", n.Index, err)
		}
	}
	return &n, nil
}

// LoadGraph reads the stored snapshot back into memory. Edge positions come
// back in the order they were saved, so traversal tie-breaking is stable
// across a save and load.
func (s *Store) LoadGraph() (*graph.Graph, error) {
	nodeCount, edgeCount, err := s.Counts()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(`
		SELECT node_index, node_id, node_type, node_name, node_source, features
		FROM nodes ORDER BY node_index
	`)
	if err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]*graph.NodeAttrs, 0, nodeCount)
	for rows.Next() {
		n, err := scanNodeAttrs(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}

	edgeRows, err := s.conn.Query(`
		SELECT source, target, relation, display_relation
		FROM edges ORDER BY ord
	`)
	if err != nil {
		return nil, fmt.Errorf("reading edges: %w", err)
	}
	defer edgeRows.Close()

	edges := make([]graph.Edge, 0, edgeCount)
	for edgeRows.Next() {
		var e graph.Edge
		if err := edgeRows.Scan(&e.Source, &e.Target, &e.Relation, &e.DisplayRelation); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("reading edges: %w", err)
	}

	return graph.NewGraph(nodes, edges), nil
}

// Fingerprint returns the source fingerprint recorded at save time, or nil
// when the store has never been written
func (s *Store) Fingerprint() (dataset.Fingerprint, error) {
	value, ok, err := s.meta(metaFingerprint)
	if err != nil || !ok {
		return nil, err
	}
	var fp dataset.Fingerprint
	if err := json.Unmarshal([]byte(value), &fp); err != nil {
		return nil, fmt.Errorf("decoding stored fingerprint: %w", err)
	}
	return fp, nil
}

// Counts returns the node and edge counts recorded at save time, or zeros
// when the store has never been written
func (s *Store) Counts() (nodes, edges int, err error) {
	nodes, err = s.metaInt(metaNodeCount)
	if err != nil {
		return 0, 0, err
	}
	edges, err = s.metaInt(metaEdgeCount)
	if err != nil {
		return 0, 0, err
	}
	return nodes, edges, nil
}

func (s *Store) metaInt(key string) (int, error) {
	value, ok, err := s.meta(key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", key, err)
	}
	return n, nil
}

// BuiltAt returns the snapshot's save time in Unix milliseconds, or zero
// when the store has never been written
func (s *Store) BuiltAt() (int64, error) {
	value, ok, err := s.meta(metaBuiltAt)
	if err != nil || !ok {
		return 0, err
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decoding built_at: %w", err)
	}
	return ms, nil
}
