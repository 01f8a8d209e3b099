package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepositoryFacade interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db DBPool) portsrepo.ReportingRepositoryFacade {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SessionPaymentBreakdown groups a session's cash-ledger movements by payment
// method and tender.
func (r *reportingRepository) SessionPaymentBreakdown(ctx context.Context, sessionID string) ([]domain.PaymentMethodTotal, error) {
	query := `
		SELECT
			payment_method_id,
			tender,
			SUM(amount) AS total,
			COUNT(*) AS movement_count
		FROM cash_movements
		WHERE session_id = $1
		GROUP BY payment_method_id, tender
		ORDER BY tender, payment_method_id NULLS FIRST
	`

	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying session payment breakdown: %w", err)
	}
	defer rows.Close()

	var result []domain.PaymentMethodTotal
	for rows.Next() {
		var row domain.PaymentMethodTotal
		var tender string
		var count int64
		if err := rows.Scan(&row.PaymentMethodID, &tender, &row.Total, &count); err != nil {
			return nil, fmt.Errorf("error scanning session payment breakdown row: %w", err)
		}
		row.Tender = domain.Tender(tender)
		row.Count = int(count)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session payment breakdown rows: %w", err)
	}
	return result, nil
}
