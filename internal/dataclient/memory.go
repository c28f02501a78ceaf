package dataclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryClient is an in-memory stand-in for the hosted backend, used by tests
// and the USE_MEMORY_STORE development mode. It assigns ids and timestamps
// the way the real store does.
type MemoryClient struct {
	mu       sync.RWMutex
	tables   map[string][]map[string]any
	users    map[string]string
	sessions map[string]*Session
}

var _ Client = (*MemoryClient)(nil)
var _ Client = (*RestClient)(nil)

// NewMemoryClient creates an empty in-memory backend.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		tables:   make(map[string][]map[string]any),
		users:    make(map[string]string),
		sessions: make(map[string]*Session),
	}
}

// RegisterUser adds a staff account that SignIn will accept.
func (c *MemoryClient) RegisterUser(email, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[email] = password
}

// Select returns the JSON array of rows matching the query. Rows are copied
// out under the lock; concurrent writers mutate the stored maps.
func (c *MemoryClient) Select(ctx context.Context, sess *Session, table string, q Query) ([]byte, error) {
	c.mu.RLock()
	rows := make([]map[string]any, 0, len(c.tables[table]))
	for _, row := range c.tables[table] {
		if q.Eq != nil && fmt.Sprint(row[q.Eq.Column]) != q.Eq.Value {
			continue
		}
		rows = append(rows, cloneRow(row))
	}
	c.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			if q.Descending {
				return columnLess(rows[j][q.OrderBy], rows[i][q.OrderBy])
			}
			return columnLess(rows[i][q.OrderBy], rows[j][q.OrderBy])
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, &FetchError{Table: table, Err: err}
	}
	return data, nil
}

// Insert stores one record, assigning id and timestamps.
func (c *MemoryClient) Insert(ctx context.Context, sess *Session, table string, record any) error {
	row, err := toRow(record)
	if err != nil {
		return &InsertError{Table: table, Err: err}
	}
	if v, ok := row["id"]; !ok || fmt.Sprint(v) == "" {
		row["id"] = uuid.NewString()
	}
	now := time.Now().UTC()
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	row["updated_at"] = now

	c.mu.Lock()
	c.tables[table] = append(c.tables[table], row)
	c.mu.Unlock()
	return nil
}

// Update merges changes into the record matching id.
func (c *MemoryClient) Update(ctx context.Context, sess *Session, table string, id string, changes map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range c.tables[table] {
		if fmt.Sprint(row["id"]) != id {
			continue
		}
		for k, v := range changes {
			row[k] = v
		}
		row["updated_at"] = time.Now().UTC()
		return nil
	}
	return &UpdateError{Table: table, Err: ErrNotFound}
}

// Delete removes the record matching id.
func (c *MemoryClient) Delete(ctx context.Context, sess *Session, table string, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.tables[table]
	for i, row := range rows {
		if fmt.Sprint(row["id"]) == id {
			c.tables[table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return &DeleteError{Table: table, Err: ErrNotFound}
}

// SignIn issues a session for a registered user.
func (c *MemoryClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.users[email]
	if !ok || stored != password {
		return nil, &APIError{Status: 400, Message: "invalid login credentials"}
	}
	sess := &Session{
		AccessToken: uuid.NewString(),
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        User{ID: uuid.NewString(), Email: email},
	}
	c.sessions[sess.AccessToken] = sess
	return sess, nil
}

// SignOut revokes a session.
func (c *MemoryClient) SignOut(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sess.AccessToken)
	return nil
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func toRow(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// columnLess orders mixed column values; timestamps sort chronologically,
// everything else falls back to string order.
func columnLess(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Before(bt)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)) < 0
}
