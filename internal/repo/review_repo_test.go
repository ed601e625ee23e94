package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bodegaresearch/go-review-backend/internal/domain"
)

// testDB opens a unique shared in-memory SQLite database and migrates the
// schema. Each test gets its own database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleNotes() domain.RawNotes {
	return domain.RawNotes{
		Aisle1PMF:       "pmf notes",
		Aisle2UIUX:      "uiux notes",
		Aisle3General:   "general notes",
		Aisle4Sentiment: "sentiment notes",
	}
}

func sampleAnalysis() domain.AIAnalysis {
	return domain.AIAnalysis{
		PublicReceipt: domain.PublicReceipt{
			TheAlpha:        []string{"a1", "a2", "a3"},
			TheFriction:     []string{"f1", "f2", "f3"},
			Recommendations: []string{"r1", "r2", "r3"},
			Scores:          domain.ReceiptScores{PMF: 7.5, UI: 8.0, Sentiment: 6.5, Overall: 7.4},
		},
		PrivateReport: "Summary.\n\nDetail.",
		MarketIntelligence: domain.MarketIntelligence{
			Sector:         "DeFi",
			TAM:            "$50B",
			KeyCompetitors: []string{"Aave"},
			MarketMaturity: domain.MaturityGrowing,
			EntryBarrier:   domain.BarrierHigh,
		},
	}
}

func TestCreateReview_AndGet_RoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	img := "https://cdn.example.com/brand-images/1-abc.png"
	created, err := CreateReview(ctx, db, "ChainWorks", &img, sampleNotes(), sampleAnalysis(), 7.4)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.RatingScore == nil || *created.RatingScore != 7.4 {
		t.Fatalf("rating score = %v", created.RatingScore)
	}

	got, err := GetReview(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.ProjectName != "ChainWorks" {
		t.Fatalf("project name = %q", got.ProjectName)
	}
	if got.BrandImageURL == nil || *got.BrandImageURL != img {
		t.Fatalf("brand image = %v", got.BrandImageURL)
	}
	if got.Notes().Aisle1PMF != "pmf notes" {
		t.Fatalf("notes did not round-trip: %+v", got.Notes())
	}
	a := got.Analysis()
	if a == nil {
		t.Fatalf("analysis missing after round-trip")
	}
	if a.PublicReceipt.Scores.Overall != 7.4 || a.MarketIntelligence.Sector != "DeFi" {
		t.Fatalf("analysis did not round-trip: %+v", a)
	}
	if len(a.PublicReceipt.TheAlpha) != domain.ReceiptListLen {
		t.Fatalf("theAlpha len = %d", len(a.PublicReceipt.TheAlpha))
	}
}

func TestGetReview_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := GetReview(context.Background(), db, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestListReviews_OrderAndPaging(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Insert with explicit timestamps so ordering is deterministic.
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		r := &domain.Review{
			ID:          uuid.NewString(),
			ProjectName: fmt.Sprintf("proj-%d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := ListReviews(ctx, db)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d; want 5", len(all))
	}
	if all[0].ProjectName != "proj-4" || all[4].ProjectName != "proj-0" {
		t.Fatalf("not ordered newest first: %s .. %s", all[0].ProjectName, all[4].ProjectName)
	}

	total, err := CountReviews(ctx, db)
	if err != nil || total != 5 {
		t.Fatalf("CountReviews = %d, %v; want 5", total, err)
	}

	page, err := ListReviewsPage(ctx, db, 2, 2)
	if err != nil {
		t.Fatalf("ListReviewsPage: %v", err)
	}
	if len(page) != 2 || page[0].ProjectName != "proj-2" || page[1].ProjectName != "proj-1" {
		t.Fatalf("page = %+v", page)
	}
}

func TestUpdateArtifactURL(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := CreateReview(ctx, db, "Proj", nil, sampleNotes(), sampleAnalysis(), 7.4)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	infoURL := "https://cdn.example.com/infographics/proj-receipt-1.pdf"
	if err := UpdateArtifactURL(ctx, db, created.ID, "infographic_url", infoURL); err != nil {
		t.Fatalf("UpdateArtifactURL infographic: %v", err)
	}
	reportURL := "https://cdn.example.com/reports/proj-report-1.pdf?sig=abc"
	if err := UpdateArtifactURL(ctx, db, created.ID, "report_url", reportURL); err != nil {
		t.Fatalf("UpdateArtifactURL report: %v", err)
	}

	got, err := GetReview(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.InfographicURL == nil || *got.InfographicURL != infoURL {
		t.Fatalf("infographic url = %v", got.InfographicURL)
	}
	if got.ReportURL == nil || *got.ReportURL != reportURL {
		t.Fatalf("report url = %v", got.ReportURL)
	}

	// Re-render overwrites the stored URL.
	if err := UpdateArtifactURL(ctx, db, created.ID, "infographic_url", "https://cdn.example.com/v2.pdf"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = GetReview(ctx, db, created.ID)
	if *got.InfographicURL != "https://cdn.example.com/v2.pdf" {
		t.Fatalf("overwrite did not stick: %v", *got.InfographicURL)
	}

	if err := UpdateArtifactURL(ctx, db, uuid.NewString(), "report_url", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing review err = %v; want ErrNotFound", err)
	}
}

func TestDeleteReview_RemovesRow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := CreateReview(ctx, db, "Proj", nil, sampleNotes(), sampleAnalysis(), 7.4)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := DeleteReview(ctx, db, created.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if _, err := GetReview(ctx, db, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted review still visible: %v", err)
	}

	// Hard delete: no row survives, not even an unscoped one.
	var n int64
	if err := db.Unscoped().Model(&domain.Review{}).Where("id = ?", created.ID).Count(&n).Error; err != nil {
		t.Fatalf("unscoped count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected row to be gone, found %d", n)
	}

	// Second delete is a not-found.
	if err := DeleteReview(ctx, db, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}
}

func TestReviewsStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	count, maxUpdated, err := ReviewsStats(ctx, db)
	if err != nil {
		t.Fatalf("ReviewsStats empty: %v", err)
	}
	if count != 0 || maxUpdated != nil {
		t.Fatalf("empty stats = %d, %v", count, maxUpdated)
	}

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		r := &domain.Review{
			ID:          uuid.NewString(),
			ProjectName: "p",
			CreatedAt:   base,
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, maxUpdated, err = ReviewsStats(ctx, db)
	if err != nil {
		t.Fatalf("ReviewsStats: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d; want 3", count)
	}
	if maxUpdated == nil || !maxUpdated.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("maxUpdated = %v; want %v", maxUpdated, base.Add(2*time.Minute))
	}
}
