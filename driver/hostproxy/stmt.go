package hostproxy

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ulib-project/orm/driver"
)

// stmt is a client-side prepared statement. The id tags errors and queued
// pipeline operations so failures can be traced back to one statement.
type stmt struct {
	conn  *conn
	id    string
	query string

	params []driver.Value
	dests  []any

	columns  []string
	rows     [][]any
	cursor   int
	executed bool

	handler func(index uint32)
	queue   []pipelineOp
}

type pipelineOp struct {
	index uint32
	query string
}

func newStmt(c *conn, query string) *stmt {
	return &stmt{conn: c, id: uuid.NewString(), query: query}
}

func (s *stmt) BindParam(pos int, v driver.Value) error {
	for len(s.params) <= pos {
		s.params = append(s.params, nil)
	}
	s.params[pos] = v
	return nil
}

func (s *stmt) BindResult(pos int, dest any) error {
	for len(s.dests) <= pos {
		s.dests = append(s.dests, nil)
	}
	s.dests[pos] = dest
	return nil
}

// render interpolates the bound parameters into the ? placeholders.
func (s *stmt) render() (string, error) {
	rendered, err := interpolate(s.query, s.params)
	if err != nil {
		return "", fmt.Errorf("statement %s: %w", s.id, err)
	}
	return rendered, nil
}

// Exec sends the rendered statement to the host. With result bindings
// registered it takes the query path and stages the returned rows;
// otherwise it takes the exec path.
func (s *stmt) Exec() error {
	rendered, err := s.render()
	if err != nil {
		return err
	}

	if len(s.dests) > 0 {
		columns, data, err := s.conn.query(rendered)
		if err != nil {
			return err
		}
		if err := s.stage(columns, data); err != nil {
			return err
		}
	} else {
		affected, lastID, err := s.conn.exec(rendered)
		if err != nil {
			return err
		}
		s.conn.affected, s.conn.lastID = affected, lastID
	}
	s.executed = true
	return nil
}

// stage decodes the host's JSON row data into an in-memory row set,
// ordered by the returned column list.
func (s *stmt) stage(columns []string, data []byte) error {
	s.columns = columns
	s.rows = nil
	s.cursor = 0
	if len(data) == 0 {
		return nil
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Join(ErrHostResponseInvalid, ErrUnmarshalResponse, err)
	}
	for _, rec := range decoded {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = rec[col]
		}
		s.rows = append(s.rows, row)
	}
	return nil
}

// Next serves the next staged row into the bound result targets. A
// statement with result bindings that was never executed runs lazily on
// the first advance.
func (s *stmt) Next() bool {
	if !s.executed {
		if len(s.dests) == 0 {
			return false
		}
		if err := s.Exec(); err != nil {
			return false
		}
	}
	if s.cursor >= len(s.rows) {
		return false
	}

	row := s.rows[s.cursor]
	s.cursor++
	for i, v := range row {
		if i >= len(s.dests) || s.dests[i] == nil {
			continue
		}
		if err := driver.ConvertAssign(s.dests[i], v); err != nil {
			return false
		}
	}
	return true
}

func (s *stmt) Cols() int { return len(s.columns) }

// Reset discards bound parameters, targets, staged rows, and any queued
// pipeline operations.
func (s *stmt) Reset() error {
	s.params = nil
	s.dests = nil
	s.columns = nil
	s.rows = nil
	s.cursor = 0
	s.executed = false
	s.queue = nil
	return nil
}

func (s *stmt) Affected() uint64 { return s.conn.affected }

func (s *stmt) LastInsertID(sequence string) uint64 { return s.conn.LastInsertID(sequence) }

func (s *stmt) Close() error {
	s.rows = nil
	s.queue = nil
	return nil
}

// PipelineMode installs the completion handler for pipelined execution.
func (s *stmt) PipelineMode(handler func(index uint32)) error {
	s.handler = handler
	return nil
}

// PipelineSendQuery queues n executions of a one-shot query. Nothing is
// sent to the host until PipelineProcess.
func (s *stmt) PipelineSendQuery(query string, n uint32) error {
	for i := uint32(0); i < n; i++ {
		s.queue = append(s.queue, pipelineOp{index: uint32(len(s.queue)), query: query})
	}
	return nil
}

// PipelineSendPrepared queues one execution of this statement with the
// currently bound parameters, rendered at queue time.
func (s *stmt) PipelineSendPrepared(index uint32) error {
	rendered, err := s.render()
	if err != nil {
		return err
	}
	s.queue = append(s.queue, pipelineOp{index: index, query: rendered})
	return nil
}

// PipelineProcess drains up to n queued operations on the caller's
// goroutine, one host round trip per operation, invoking the completion
// handler after each. n of zero drains everything queued.
func (s *stmt) PipelineProcess(n uint32) error {
	count := len(s.queue)
	if n > 0 && int(n) < count {
		count = int(n)
	}

	for i := 0; i < count; i++ {
		op := s.queue[i]
		if _, _, err := s.conn.exec(op.query); err != nil {
			s.queue = s.queue[i:]
			return fmt.Errorf("statement %s: pipeline operation %d: %w", s.id, op.index, err)
		}
		if s.handler != nil {
			s.handler(op.index)
		}
	}
	s.queue = s.queue[count:]
	return nil
}
