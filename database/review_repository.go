package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "hotel-review-graphrag/errors"
	"hotel-review-graphrag/models"
)

// StoredReview is a review document with its embedding vector as persisted.
type StoredReview struct {
	models.ReviewDocument
	Embedding []float64
}

// ReviewRepository persists review documents and their embeddings for
// semantic retrieval. Transient database failures are retried with backoff;
// constraint violations and missing rows are not.
type ReviewRepository struct {
	store   *PostgresStore
	retryer *apperrors.Retryer
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(store *PostgresStore) *ReviewRepository {
	return &ReviewRepository{
		store:   store,
		retryer: apperrors.NewRetryer(apperrors.DatabaseRetryConfig()),
	}
}

// Insert stores one review document. A zero ID gets a generated UUID.
func (r *ReviewRepository) Insert(ctx context.Context, review *StoredReview) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO review_documents (
			id, hotel_name, review_text, language, score, traveler_type, embedding, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	return r.retryer.Execute(ctx, func() error {
		_, err := r.store.db.ExecContext(ctx, query,
			review.ID,
			review.HotelName,
			review.Text,
			review.Language,
			review.Score,
			nullableString(review.TravelerType),
			pq.Array(review.Embedding),
			review.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewValidationError(
					apperrors.ErrCodeDatabaseConstraint,
					fmt.Sprintf("review %s already exists", review.ID),
					err,
				)
			}
			return apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to insert review document",
				err,
			)
		}
		return nil
	})
}

// GetByID retrieves one review document.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*StoredReview, error) {
	query := `
		SELECT id, hotel_name, review_text, language, score, traveler_type, embedding, created_at
		FROM review_documents
		WHERE id = $1
	`

	return apperrors.ExecuteWithResult(ctx, r.retryer.Config(), func() (*StoredReview, error) {
		review, err := scanReview(r.store.db.QueryRowContext(ctx, query, id))
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFoundError(
				apperrors.ErrCodeResourceNotFound,
				fmt.Sprintf("review %s not found", id),
				nil,
			)
		}
		if err != nil {
			return nil, apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to query review document",
				err,
			)
		}
		return review, nil
	})
}

// List returns stored reviews newest first. Embeddings are included so the
// retrieval service can score them against a query vector.
func (r *ReviewRepository) List(ctx context.Context, limit, offset int) ([]*StoredReview, error) {
	query := `
		SELECT id, hotel_name, review_text, language, score, traveler_type, embedding, created_at
		FROM review_documents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return apperrors.ExecuteWithResult(ctx, r.retryer.Config(), func() ([]*StoredReview, error) {
		rows, err := r.store.db.QueryContext(ctx, query, limit, offset)
		if err != nil {
			return nil, apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to list review documents",
				err,
			)
		}
		defer rows.Close()
		return collectReviews(rows)
	})
}

// ListEmbedded returns all reviews that carry an embedding, for similarity
// scoring. Reviews indexed while the embedding API was down are skipped.
func (r *ReviewRepository) ListEmbedded(ctx context.Context, limit int) ([]*StoredReview, error) {
	query := `
		SELECT id, hotel_name, review_text, language, score, traveler_type, embedding, created_at
		FROM review_documents
		WHERE embedding IS NOT NULL
		ORDER BY created_at DESC
		LIMIT $1
	`

	return apperrors.ExecuteWithResult(ctx, r.retryer.Config(), func() ([]*StoredReview, error) {
		rows, err := r.store.db.QueryContext(ctx, query, limit)
		if err != nil {
			return nil, apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to list embedded review documents",
				err,
			)
		}
		defer rows.Close()
		return collectReviews(rows)
	})
}

// collectReviews drains a result set into stored reviews.
func collectReviews(rows *sql.Rows) ([]*StoredReview, error) {
	var reviews []*StoredReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to scan review document",
				err,
			)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(
			apperrors.ErrCodeDatabaseQuery,
			"Error iterating review documents",
			err,
		)
	}

	return reviews, nil
}

// Delete removes one review document.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return r.retryer.Execute(ctx, func() error {
		result, err := r.store.db.ExecContext(ctx, `DELETE FROM review_documents WHERE id = $1`, id)
		if err != nil {
			return apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to delete review document",
				err,
			)
		}

		affected, err := result.RowsAffected()
		if err == nil && affected == 0 {
			return apperrors.NewNotFoundError(
				apperrors.ErrCodeResourceNotFound,
				fmt.Sprintf("review %s not found", id),
				nil,
			)
		}
		return nil
	})
}

// Count returns the number of stored review documents.
func (r *ReviewRepository) Count(ctx context.Context) (int, error) {
	return apperrors.ExecuteWithResult(ctx, r.retryer.Config(), func() (int, error) {
		var count int
		err := r.store.db.QueryRowContext(ctx, `SELECT count(*) FROM review_documents`).Scan(&count)
		if err != nil {
			return 0, apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				"Failed to count review documents",
				err,
			)
		}
		return count, nil
	})
}

// BatchInsert stores multiple reviews in one transaction. Used by the bulk
// indexing command. A failed transaction is rolled back and retried whole.
func (r *ReviewRepository) BatchInsert(ctx context.Context, reviews []*StoredReview) error {
	return r.retryer.Execute(ctx, func() error {
		return r.batchInsertOnce(ctx, reviews)
	})
}

func (r *ReviewRepository) batchInsertOnce(ctx context.Context, reviews []*StoredReview) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseError(
			apperrors.ErrCodeDatabaseConnection,
			"Failed to begin transaction",
			err,
		)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO review_documents (
			id, hotel_name, review_text, language, score, traveler_type, embedding, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return apperrors.NewDatabaseError(
			apperrors.ErrCodeDatabaseQuery,
			"Failed to prepare insert statement",
			err,
		)
	}
	defer stmt.Close()

	now := time.Now()
	for i, review := range reviews {
		if review.ID == "" {
			review.ID = uuid.New().String()
		}
		if review.CreatedAt.IsZero() {
			review.CreatedAt = now
		}

		_, err := stmt.ExecContext(ctx,
			review.ID,
			review.HotelName,
			review.Text,
			review.Language,
			review.Score,
			nullableString(review.TravelerType),
			pq.Array(review.Embedding),
			review.CreatedAt,
		)
		if err != nil {
			return apperrors.NewDatabaseError(
				apperrors.ErrCodeDatabaseQuery,
				fmt.Sprintf("Failed to insert review %d of %d", i+1, len(reviews)),
				err,
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseError(
			apperrors.ErrCodeDatabaseQuery,
			"Failed to commit transaction",
			err,
		)
	}

	return nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(row rowScanner) (*StoredReview, error) {
	var review StoredReview
	var travelerType sql.NullString
	var score sql.NullFloat64
	var embedding pq.Float64Array

	err := row.Scan(
		&review.ID,
		&review.HotelName,
		&review.Text,
		&review.Language,
		&score,
		&travelerType,
		&embedding,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.Score = score.Float64
	review.TravelerType = travelerType.String
	review.Embedding = []float64(embedding)
	return &review, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
