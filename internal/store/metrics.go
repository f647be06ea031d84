package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// AppendEmail appends an email performance event, evicting the oldest
// records beyond the retention cap in the same transaction.
func (s *Store) AppendEmail(e models.EmailEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO email_events (email_id, lead_id, subject, sent_at, opened, clicked, replied, converted, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.EmailID, e.LeadID, e.Subject, formatTime(e.SentAt), boolInt(e.Opened), boolInt(e.Clicked), boolInt(e.Replied), boolInt(e.Converted), formatTime(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert email event: %w", err)
	}

	if err := prune(tx, "email_events", EmailRetention); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendConversion appends a conversion event under the conversions cap.
func (s *Store) AppendConversion(e models.ConversionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO conversion_events (lead_id, touchpoints, outcome, revenue, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.LeadID, e.Touchpoints, string(e.Outcome), e.Revenue, formatTime(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert conversion event: %w", err)
	}

	if err := prune(tx, "conversion_events", ConversionRetention); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendPricing appends a pricing event under the pricing cap.
func (s *Store) AppendPricing(e models.PricingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO pricing_events (price, outcome, recorded_at)
		VALUES (?, ?, ?)
	`, e.Price, string(e.Outcome), formatTime(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert pricing event: %w", err)
	}

	if err := prune(tx, "pricing_events", PricingRetention); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendContent appends a content performance event under the content cap.
func (s *Store) AppendContent(e models.ContentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO content_events (content_id, type, views, engagement, conversions, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ContentID, e.Type, e.Views, e.Engagement, e.Conversions, formatTime(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert content event: %w", err)
	}

	if err := prune(tx, "content_events", ContentRetention); err != nil {
		return err
	}

	return tx.Commit()
}

// prune evicts the oldest rows beyond the retention cap.
// Runs inside the append transaction so eviction and insert commit together.
func prune(tx *sql.Tx, table string, keep int) error {
	_, err := tx.Exec(fmt.Sprintf(`
		DELETE FROM %s WHERE seq NOT IN (
			SELECT seq FROM %s ORDER BY seq DESC LIMIT %d
		)
	`, table, table, keep))
	if err != nil {
		return fmt.Errorf("prune %s: %w", table, err)
	}
	return nil
}

// EmailEvents returns all email events in insertion order.
// Unreadable state degrades to an empty slice; predictions and
// tracking stay available even over a corrupt collection.
func (s *Store) EmailEvents() []models.EmailEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT email_id, lead_id, subject, sent_at, opened, clicked, replied, converted, recorded_at
		FROM email_events ORDER BY seq ASC
	`)
	if err != nil {
		s.logger.Log("load email_events failed: %v", err)
		return nil
	}
	defer rows.Close()

	var events []models.EmailEvent
	for rows.Next() {
		var e models.EmailEvent
		var sentAt, recordedAt string
		var opened, clicked, replied, converted int
		if err := rows.Scan(&e.EmailID, &e.LeadID, &e.Subject, &sentAt, &opened, &clicked, &replied, &converted, &recordedAt); err != nil {
			s.logger.Log("scan email event failed: %v", err)
			return nil
		}
		e.SentAt, _ = parseTime(sentAt)
		e.RecordedAt, _ = parseTime(recordedAt)
		e.Opened = opened != 0
		e.Clicked = clicked != 0
		e.Replied = replied != 0
		e.Converted = converted != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Log("iterate email_events failed: %v", err)
		return nil
	}
	return events
}

// ConversionEvents returns all conversion events in insertion order.
func (s *Store) ConversionEvents() []models.ConversionEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT lead_id, touchpoints, outcome, revenue, recorded_at
		FROM conversion_events ORDER BY seq ASC
	`)
	if err != nil {
		s.logger.Log("load conversion_events failed: %v", err)
		return nil
	}
	defer rows.Close()

	var events []models.ConversionEvent
	for rows.Next() {
		var e models.ConversionEvent
		var outcome, recordedAt string
		if err := rows.Scan(&e.LeadID, &e.Touchpoints, &outcome, &e.Revenue, &recordedAt); err != nil {
			s.logger.Log("scan conversion event failed: %v", err)
			return nil
		}
		e.Outcome = models.ConversionOutcome(outcome)
		e.RecordedAt, _ = parseTime(recordedAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Log("iterate conversion_events failed: %v", err)
		return nil
	}
	return events
}

// PricingEvents returns all pricing events in insertion order.
func (s *Store) PricingEvents() []models.PricingEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT price, outcome, recorded_at
		FROM pricing_events ORDER BY seq ASC
	`)
	if err != nil {
		s.logger.Log("load pricing_events failed: %v", err)
		return nil
	}
	defer rows.Close()

	var events []models.PricingEvent
	for rows.Next() {
		var e models.PricingEvent
		var outcome, recordedAt string
		if err := rows.Scan(&e.Price, &outcome, &recordedAt); err != nil {
			s.logger.Log("scan pricing event failed: %v", err)
			return nil
		}
		e.Outcome = models.PricingOutcome(outcome)
		e.RecordedAt, _ = parseTime(recordedAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Log("iterate pricing_events failed: %v", err)
		return nil
	}
	return events
}

// ContentEvents returns all content events in insertion order.
func (s *Store) ContentEvents() []models.ContentEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT content_id, type, views, engagement, conversions, recorded_at
		FROM content_events ORDER BY seq ASC
	`)
	if err != nil {
		s.logger.Log("load content_events failed: %v", err)
		return nil
	}
	defer rows.Close()

	var events []models.ContentEvent
	for rows.Next() {
		var e models.ContentEvent
		var recordedAt string
		if err := rows.Scan(&e.ContentID, &e.Type, &e.Views, &e.Engagement, &e.Conversions, &recordedAt); err != nil {
			s.logger.Log("scan content event failed: %v", err)
			return nil
		}
		e.RecordedAt, _ = parseTime(recordedAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Log("iterate content_events failed: %v", err)
		return nil
	}
	return events
}
