package port

import (
	"context"

	"staybook/internal/domain"
)

// BatchReviewNotice summarizes a batch that left candidates for an operator to look at.
type BatchReviewNotice struct {
	BatchID   string
	FileCount int
	Summary   domain.BatchSummary
	// ReviewURL links to the exported review sheet; empty when nothing was archived.
	ReviewURL string
}

// BatchNotifier delivers batch review notices.
type BatchNotifier interface {
	NotifyBatchReview(ctx context.Context, notice BatchReviewNotice) error
}
