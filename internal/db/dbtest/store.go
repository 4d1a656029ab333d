// Package dbtest provides an in-memory sqlc.Querier and db.UnitOfWork for unit tests.
//
// The store mirrors the constraints of the postgres schema that the ingestion
// pipeline relies on: unique keys surface as *pgconn.PgError with code 23505 and
// the real constraint name, composite tenant foreign keys surface as 23503, and a
// statement error inside a transaction aborts it (25P02) until it is discarded.
package dbtest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInFailedTx          = "25P02"
)

// Store is a transactional in-memory database. A transaction holds the store
// lock for its whole duration, so concurrent transactions are serialized.
type Store struct {
	mu    sync.Mutex
	state *state

	failMu   sync.Mutex
	failures map[string]error

	// Now stamps created_at and updated_at columns.
	Now func() time.Time
	// AfterExists runs after every MessageExists call, outside the store lock.
	AfterExists func()
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		state:    &state{},
		failures: map[string]error{},
		Now:      time.Now,
	}
}

var (
	_ sqlc.Querier  = (*Store)(nil)
	_ db.UnitOfWork = (*Store)(nil)
)

// FailOn makes every later call of the named Querier method return err.
// A nil err clears the failure.
func (s *Store) FailOn(method string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

func (s *Store) failure(method string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.failures[method]
}

// InTx runs fn against a private copy of the data and publishes the copy only
// when fn returns db.TxCommit without error.
func (s *Store) InTx(ctx context.Context, fn db.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &querier{store: s, st: s.state.clone(), inTx: true}
	decision, err := fn(ctx, tx)
	if err != nil || decision != db.TxCommit {
		return err
	}
	if tx.aborted {
		return fmt.Errorf("commit tx: %w", &pgconn.PgError{
			Code:    codeInFailedTx,
			Message: "current transaction is aborted, commands ignored until end of transaction block",
		})
	}
	s.state = tx.st
	return nil
}

func (s *Store) autocommit() (*querier, func()) {
	s.mu.Lock()
	return &querier{store: s, st: s.state}, s.mu.Unlock
}

// Snapshot returns a copy of every committed row.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.clone()
	return Snapshot{
		Tenants:       st.tenants,
		Contacts:      st.contacts,
		Conversations: st.conversations,
		Messages:      st.messages,
		Attributions:  st.attributions,
		MemoryRecords: st.memory,
		Operators:     st.operators,
	}
}

// Snapshot is a point-in-time copy of the committed rows in insertion order.
type Snapshot struct {
	Tenants       []sqlc.Tenant
	Contacts      []sqlc.Contact
	Conversations []sqlc.Conversation
	Messages      []sqlc.Message
	Attributions  []sqlc.Attribution
	MemoryRecords []sqlc.MemoryRecord
	Operators     []sqlc.Operator
}

// ActiveConversations returns the snapshot's active conversations for a contact.
func (s Snapshot) ActiveConversations(contactID pgtype.UUID) []sqlc.Conversation {
	var out []sqlc.Conversation
	for _, c := range s.Conversations {
		if c.ContactID == contactID && c.Status == "active" {
			out = append(out, c)
		}
	}
	return out
}

// InsertConversation adds a committed conversation row directly, bypassing the
// query layer. It is meant for arranging anomalous states such as two active
// conversations for one contact.
func (s *Store) InsertConversation(c sqlc.Conversation) sqlc.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !c.ID.Valid {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = "active"
	}
	if !c.CreatedAt.Valid {
		c.CreatedAt = db.Timestamptz(s.Now())
	}
	if !c.OpenedAt.Valid {
		c.OpenedAt = c.CreatedAt
	}
	s.state.conversations = append(s.state.conversations, c)
	return c
}

type state struct {
	tenants       []sqlc.Tenant
	contacts      []sqlc.Contact
	conversations []sqlc.Conversation
	messages      []sqlc.Message
	attributions  []sqlc.Attribution
	memory        []sqlc.MemoryRecord
	operators     []sqlc.Operator
}

// clone copies the row slices. Rows are values and their byte slices are never
// mutated in place, so a shallow copy per table is enough.
func (st *state) clone() *state {
	return &state{
		tenants:       slices.Clone(st.tenants),
		contacts:      slices.Clone(st.contacts),
		conversations: slices.Clone(st.conversations),
		messages:      slices.Clone(st.messages),
		attributions:  slices.Clone(st.attributions),
		memory:        slices.Clone(st.memory),
		operators:     slices.Clone(st.operators),
	}
}

type querier struct {
	store   *Store
	st      *state
	inTx    bool
	aborted bool
}

// exec guards one statement: it applies injected failures, refuses work in an
// aborted transaction, and marks the transaction aborted when the statement fails.
// pgx.ErrNoRows does not abort a transaction.
func (q *querier) exec(ctx context.Context, method string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.aborted {
		return &pgconn.PgError{
			Code:    codeInFailedTx,
			Message: "current transaction is aborted, commands ignored until end of transaction block",
		}
	}
	err := q.store.failure(method)
	if err == nil {
		err = fn()
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) && q.inTx {
		q.aborted = true
	}
	return err
}

func (q *querier) now() pgtype.Timestamptz {
	return db.Timestamptz(q.store.Now())
}

func newID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func uniqueViolation(constraint, table string) error {
	return &pgconn.PgError{
		Code:           codeUniqueViolation,
		Message:        fmt.Sprintf("duplicate key value violates unique constraint %q", constraint),
		TableName:      table,
		ConstraintName: constraint,
	}
}

func foreignKeyViolation(constraint, table string) error {
	return &pgconn.PgError{
		Code:           codeForeignKeyViolation,
		Message:        fmt.Sprintf("insert or update on table %q violates foreign key constraint %q", table, constraint),
		TableName:      table,
		ConstraintName: constraint,
	}
}

func (q *querier) contactIndex(tenantID, id pgtype.UUID) int {
	return slices.IndexFunc(q.st.contacts, func(c sqlc.Contact) bool {
		return c.TenantID == tenantID && c.ID == id
	})
}

func (q *querier) conversationIndex(tenantID, id pgtype.UUID) int {
	return slices.IndexFunc(q.st.conversations, func(c sqlc.Conversation) bool {
		return c.TenantID == tenantID && c.ID == id
	})
}

func (q *querier) memoryIndex(tenantID, contactID pgtype.UUID) int {
	return slices.IndexFunc(q.st.memory, func(m sqlc.MemoryRecord) bool {
		return m.TenantID == tenantID && m.ContactID == contactID
	})
}

func (q *querier) GetTenantByName(ctx context.Context, name string) (sqlc.Tenant, error) {
	var out sqlc.Tenant
	err := q.exec(ctx, "GetTenantByName", func() error {
		i := slices.IndexFunc(q.st.tenants, func(t sqlc.Tenant) bool { return t.Name == name })
		if i < 0 {
			return pgx.ErrNoRows
		}
		out = q.st.tenants[i]
		return nil
	})
	return out, err
}

func (q *querier) CreateTenantIfAbsent(ctx context.Context, name string) (sqlc.Tenant, error) {
	var out sqlc.Tenant
	err := q.exec(ctx, "CreateTenantIfAbsent", func() error {
		if slices.ContainsFunc(q.st.tenants, func(t sqlc.Tenant) bool { return t.Name == name }) {
			return pgx.ErrNoRows
		}
		out = sqlc.Tenant{ID: newID(), Name: name, CreatedAt: q.now()}
		q.st.tenants = append(q.st.tenants, out)
		return nil
	})
	return out, err
}

func (q *querier) GetContactByKey(ctx context.Context, arg sqlc.GetContactByKeyParams) (sqlc.Contact, error) {
	var out sqlc.Contact
	err := q.exec(ctx, "GetContactByKey", func() error {
		i := slices.IndexFunc(q.st.contacts, func(c sqlc.Contact) bool {
			return c.TenantID == arg.TenantID && c.ContactKey == arg.ContactKey
		})
		if i < 0 {
			return pgx.ErrNoRows
		}
		out = q.st.contacts[i]
		return nil
	})
	return out, err
}

func (q *querier) CreateContactIfAbsent(ctx context.Context, arg sqlc.CreateContactIfAbsentParams) (sqlc.Contact, error) {
	var out sqlc.Contact
	err := q.exec(ctx, "CreateContactIfAbsent", func() error {
		if !slices.ContainsFunc(q.st.tenants, func(t sqlc.Tenant) bool { return t.ID == arg.TenantID }) {
			return foreignKeyViolation("contacts_tenant_id_fkey", "contacts")
		}
		if slices.ContainsFunc(q.st.contacts, func(c sqlc.Contact) bool {
			return c.TenantID == arg.TenantID && c.ContactKey == arg.ContactKey
		}) {
			return pgx.ErrNoRows
		}
		now := q.now()
		out = sqlc.Contact{
			ID:          newID(),
			TenantID:    arg.TenantID,
			ContactKey:  arg.ContactKey,
			WaID:        arg.WaID,
			ProfileName: arg.ProfileName,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		q.st.contacts = append(q.st.contacts, out)
		return nil
	})
	return out, err
}

func (q *querier) UpdateContactProfile(ctx context.Context, arg sqlc.UpdateContactProfileParams) (sqlc.Contact, error) {
	var out sqlc.Contact
	err := q.exec(ctx, "UpdateContactProfile", func() error {
		i := q.contactIndex(arg.TenantID, arg.ID)
		if i < 0 {
			return pgx.ErrNoRows
		}
		c := q.st.contacts[i]
		c.WaID = arg.WaID
		c.ProfileName = arg.ProfileName
		c.UpdatedAt = q.now()
		q.st.contacts[i] = c
		out = c
		return nil
	})
	return out, err
}

func (q *querier) GetActiveConversation(ctx context.Context, arg sqlc.GetActiveConversationParams) (sqlc.Conversation, error) {
	var out sqlc.Conversation
	err := q.exec(ctx, "GetActiveConversation", func() error {
		var active []sqlc.Conversation
		for _, c := range q.st.conversations {
			if c.TenantID == arg.TenantID && c.ContactID == arg.ContactID && c.Status == "active" {
				active = append(active, c)
			}
		}
		if len(active) == 0 {
			return pgx.ErrNoRows
		}
		slices.SortFunc(active, func(a, b sqlc.Conversation) int {
			if c := b.OpenedAt.Time.Compare(a.OpenedAt.Time); c != 0 {
				return c
			}
			if c := b.CreatedAt.Time.Compare(a.CreatedAt.Time); c != 0 {
				return c
			}
			return bytes.Compare(b.ID.Bytes[:], a.ID.Bytes[:])
		})
		out = active[0]
		return nil
	})
	return out, err
}

func (q *querier) CreateConversation(ctx context.Context, arg sqlc.CreateConversationParams) (sqlc.Conversation, error) {
	var out sqlc.Conversation
	err := q.exec(ctx, "CreateConversation", func() error {
		if q.contactIndex(arg.TenantID, arg.ContactID) < 0 {
			return foreignKeyViolation("conversations_contact_fkey", "conversations")
		}
		now := q.now()
		out = sqlc.Conversation{
			ID:        newID(),
			TenantID:  arg.TenantID,
			ContactID: arg.ContactID,
			Status:    "active",
			OpenedAt:  now,
			CreatedAt: now,
		}
		q.st.conversations = append(q.st.conversations, out)
		return nil
	})
	return out, err
}

func (q *querier) MessageExists(ctx context.Context, arg sqlc.MessageExistsParams) (bool, error) {
	var out bool
	err := q.exec(ctx, "MessageExists", func() error {
		out = slices.ContainsFunc(q.st.messages, func(m sqlc.Message) bool {
			return m.TenantID == arg.TenantID && m.MessageID == arg.MessageID
		})
		return nil
	})
	return out, err
}

func (q *querier) GetMessageByExternalID(ctx context.Context, arg sqlc.GetMessageByExternalIDParams) (sqlc.Message, error) {
	var out sqlc.Message
	err := q.exec(ctx, "GetMessageByExternalID", func() error {
		i := slices.IndexFunc(q.st.messages, func(m sqlc.Message) bool {
			return m.TenantID == arg.TenantID && m.MessageID == arg.MessageID
		})
		if i < 0 {
			return pgx.ErrNoRows
		}
		out = q.st.messages[i]
		return nil
	})
	return out, err
}

func (q *querier) CreateMessage(ctx context.Context, arg sqlc.CreateMessageParams) (sqlc.Message, error) {
	var out sqlc.Message
	err := q.exec(ctx, "CreateMessage", func() error {
		if slices.ContainsFunc(q.st.messages, func(m sqlc.Message) bool {
			return m.TenantID == arg.TenantID && m.MessageID == arg.MessageID
		}) {
			return uniqueViolation("messages_tenant_message_id_key", "messages")
		}
		if q.conversationIndex(arg.TenantID, arg.ConversationID) < 0 {
			return foreignKeyViolation("messages_conversation_fkey", "messages")
		}
		if q.contactIndex(arg.TenantID, arg.ContactID) < 0 {
			return foreignKeyViolation("messages_contact_fkey", "messages")
		}
		out = sqlc.Message{
			ID:             newID(),
			TenantID:       arg.TenantID,
			ConversationID: arg.ConversationID,
			ContactID:      arg.ContactID,
			Direction:      arg.Direction,
			Channel:        arg.Channel,
			MessageID:      arg.MessageID,
			Timestamp:      arg.Timestamp,
			Type:           arg.Type,
			TextBody:       arg.TextBody,
			PayloadJson:    slices.Clone(arg.PayloadJson),
			CreatedAt:      q.now(),
		}
		q.st.messages = append(q.st.messages, out)
		return nil
	})
	return out, err
}

func (q *querier) ListMessageLog(ctx context.Context, arg sqlc.ListMessageLogParams) ([]sqlc.ListMessageLogRow, error) {
	var out []sqlc.ListMessageLogRow
	err := q.exec(ctx, "ListMessageLog", func() error {
		msgs := make([]sqlc.Message, 0, len(q.st.messages))
		for _, m := range q.st.messages {
			if !arg.TenantID.Valid || m.TenantID == arg.TenantID {
				msgs = append(msgs, m)
			}
		}
		slices.SortStableFunc(msgs, func(a, b sqlc.Message) int {
			if c := b.Timestamp.Time.Compare(a.Timestamp.Time); c != 0 {
				return c
			}
			return b.CreatedAt.Time.Compare(a.CreatedAt.Time)
		})
		if arg.MaxCount >= 0 && len(msgs) > int(arg.MaxCount) {
			msgs = msgs[:arg.MaxCount]
		}
		for _, m := range msgs {
			row := sqlc.ListMessageLogRow{
				MessageID: m.MessageID,
				Timestamp: m.Timestamp,
				Type:      m.Type,
				TextBody:  m.TextBody,
				Channel:   m.Channel,
			}
			if i := slices.IndexFunc(q.st.tenants, func(t sqlc.Tenant) bool { return t.ID == m.TenantID }); i >= 0 {
				row.TenantName = q.st.tenants[i].Name
			}
			if i := q.contactIndex(m.TenantID, m.ContactID); i >= 0 {
				row.ContactKey = q.st.contacts[i].ContactKey
			}
			out = append(out, row)
		}
		return nil
	})
	return out, err
}

func (q *querier) CreateAttribution(ctx context.Context, arg sqlc.CreateAttributionParams) (sqlc.Attribution, error) {
	var out sqlc.Attribution
	err := q.exec(ctx, "CreateAttribution", func() error {
		if q.contactIndex(arg.TenantID, arg.ContactID) < 0 {
			return foreignKeyViolation("attributions_contact_fkey", "attributions")
		}
		out = sqlc.Attribution{
			ID:         newID(),
			TenantID:   arg.TenantID,
			ContactID:  arg.ContactID,
			MessageID:  arg.MessageID,
			SourceType: arg.SourceType,
			CtwaClid:   arg.CtwaClid,
			SourceID:   arg.SourceID,
			Headline:   arg.Headline,
			Body:       arg.Body,
			RawJson:    slices.Clone(arg.RawJson),
			CapturedAt: q.now(),
		}
		q.st.attributions = append(q.st.attributions, out)
		return nil
	})
	return out, err
}

func (q *querier) EnsureMemoryRecord(ctx context.Context, arg sqlc.EnsureMemoryRecordParams) error {
	return q.exec(ctx, "EnsureMemoryRecord", func() error {
		if q.contactIndex(arg.TenantID, arg.ContactID) < 0 {
			return foreignKeyViolation("memory_records_contact_fkey", "memory_records")
		}
		if q.memoryIndex(arg.TenantID, arg.ContactID) >= 0 {
			return nil
		}
		q.st.memory = append(q.st.memory, sqlc.MemoryRecord{
			TenantID:              arg.TenantID,
			ContactID:             arg.ContactID,
			Facts:                 []byte("[]"),
			ActiveSecondaryEvents: []byte("[]"),
			RecentEvents:          []byte("[]"),
			Scores:                []byte("{}"),
			LastUserMessageAt:     arg.LastUserMessageAt,
			UpdatedAt:             q.now(),
		})
		return nil
	})
}

func (q *querier) TouchMemoryActivity(ctx context.Context, arg sqlc.TouchMemoryActivityParams) error {
	return q.exec(ctx, "TouchMemoryActivity", func() error {
		if i := q.memoryIndex(arg.TenantID, arg.ContactID); i >= 0 {
			q.st.memory[i].LastUserMessageAt = arg.LastUserMessageAt
			q.st.memory[i].UpdatedAt = q.now()
		}
		return nil
	})
}

func (q *querier) TouchMemoryActivityMonotonic(ctx context.Context, arg sqlc.TouchMemoryActivityMonotonicParams) error {
	return q.exec(ctx, "TouchMemoryActivityMonotonic", func() error {
		i := q.memoryIndex(arg.TenantID, arg.ContactID)
		if i < 0 {
			return nil
		}
		current := q.st.memory[i].LastUserMessageAt
		// GREATEST ignores NULL arguments.
		if !current.Valid || (arg.LastUserMessageAt.Valid && arg.LastUserMessageAt.Time.After(current.Time)) {
			q.st.memory[i].LastUserMessageAt = arg.LastUserMessageAt
		}
		q.st.memory[i].UpdatedAt = q.now()
		return nil
	})
}

func (q *querier) GetMemoryRecord(ctx context.Context, arg sqlc.GetMemoryRecordParams) (sqlc.MemoryRecord, error) {
	var out sqlc.MemoryRecord
	err := q.exec(ctx, "GetMemoryRecord", func() error {
		i := q.memoryIndex(arg.TenantID, arg.ContactID)
		if i < 0 {
			return pgx.ErrNoRows
		}
		out = q.st.memory[i]
		return nil
	})
	return out, err
}

func (q *querier) CountOperators(ctx context.Context) (int64, error) {
	var out int64
	err := q.exec(ctx, "CountOperators", func() error {
		out = int64(len(q.st.operators))
		return nil
	})
	return out, err
}

func (q *querier) CreateOperator(ctx context.Context, arg sqlc.CreateOperatorParams) (sqlc.Operator, error) {
	var out sqlc.Operator
	err := q.exec(ctx, "CreateOperator", func() error {
		if slices.ContainsFunc(q.st.operators, func(o sqlc.Operator) bool { return o.Username == arg.Username }) {
			return uniqueViolation("operators_username_key", "operators")
		}
		out = sqlc.Operator{
			ID:           newID(),
			Username:     arg.Username,
			PasswordHash: arg.PasswordHash,
			IsActive:     true,
			CreatedAt:    q.now(),
		}
		q.st.operators = append(q.st.operators, out)
		return nil
	})
	return out, err
}

func (q *querier) GetOperatorByUsername(ctx context.Context, username string) (sqlc.Operator, error) {
	var out sqlc.Operator
	err := q.exec(ctx, "GetOperatorByUsername", func() error {
		i := slices.IndexFunc(q.st.operators, func(o sqlc.Operator) bool { return o.Username == username })
		if i < 0 {
			return pgx.ErrNoRows
		}
		out = q.st.operators[i]
		return nil
	})
	return out, err
}
