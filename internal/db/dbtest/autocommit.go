package dbtest

import (
	"context"

	"github.com/waledger/waledger/internal/db/sqlc"
)

// Store methods run each statement in its own implicit transaction.

func (s *Store) GetTenantByName(ctx context.Context, name string) (sqlc.Tenant, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.GetTenantByName(ctx, name)
}

func (s *Store) CreateTenantIfAbsent(ctx context.Context, name string) (sqlc.Tenant, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CreateTenantIfAbsent(ctx, name)
}

func (s *Store) GetContactByKey(ctx context.Context, arg sqlc.GetContactByKeyParams) (sqlc.Contact, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.GetContactByKey(ctx, arg)
}

func (s *Store) CreateContactIfAbsent(ctx context.Context, arg sqlc.CreateContactIfAbsentParams) (sqlc.Contact, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CreateContactIfAbsent(ctx, arg)
}

func (s *Store) UpdateContactProfile(ctx context.Context, arg sqlc.UpdateContactProfileParams) (sqlc.Contact, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.UpdateContactProfile(ctx, arg)
}

func (s *Store) GetActiveConversation(ctx context.Context, arg sqlc.GetActiveConversationParams) (sqlc.Conversation, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.GetActiveConversation(ctx, arg)
}

func (s *Store) CreateConversation(ctx context.Context, arg sqlc.CreateConversationParams) (sqlc.Conversation, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CreateConversation(ctx, arg)
}

func (s *Store) MessageExists(ctx context.Context, arg sqlc.MessageExistsParams) (bool, error) {
	q, unlock := s.autocommit()
	exists, err := q.MessageExists(ctx, arg)
	unlock()
	if s.AfterExists != nil {
		s.AfterExists()
	}
	return exists, err
}

func (s *Store) GetMessageByExternalID(ctx context.Context, arg sqlc.GetMessageByExternalIDParams) (sqlc.Message, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.GetMessageByExternalID(ctx, arg)
}

func (s *Store) CreateMessage(ctx context.Context, arg sqlc.CreateMessageParams) (sqlc.Message, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CreateMessage(ctx, arg)
}

func (s *Store) ListMessageLog(ctx context.Context, arg sqlc.ListMessageLogParams) ([]sqlc.ListMessageLogRow, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.ListMessageLog(ctx, arg)
}

func (s *Store) CreateAttribution(ctx context.Context, arg sqlc.CreateAttributionParams) (sqlc.Attribution, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CreateAttribution(ctx, arg)
}

func (s *Store) EnsureMemoryRecord(ctx context.Context, arg sqlc.EnsureMemoryRecordParams) error {
	q, unlock := s.autocommit()
	defer unlock()
	return q.EnsureMemoryRecord(ctx, arg)
}

func (s *Store) TouchMemoryActivity(ctx context.Context, arg sqlc.TouchMemoryActivityParams) error {
	q, unlock := s.autocommit()
	defer unlock()
	return q.TouchMemoryActivity(ctx, arg)
}

func (s *Store) TouchMemoryActivityMonotonic(ctx context.Context, arg sqlc.TouchMemoryActivityMonotonicParams) error {
	q, unlock := s.autocommit()
	defer unlock()
	return q.TouchMemoryActivityMonotonic(ctx, arg)
}

func (s *Store) GetMemoryRecord(ctx context.Context, arg sqlc.GetMemoryRecordParams) (sqlc.MemoryRecord, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.GetMemoryRecord(ctx, arg)
}

func (s *Store) CountOperators(ctx context.Context) (int64, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CountOperators(ctx)
}

func (s *Store) CreateOperator(ctx context.Context, arg sqlc.CreateOperatorParams) (sqlc.Operator, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.CreateOperator(ctx, arg)
}

func (s *Store) GetOperatorByUsername(ctx context.Context, username string) (sqlc.Operator, error) {
	q, unlock := s.autocommit()
	defer unlock()
	return q.GetOperatorByUsername(ctx, username)
}
