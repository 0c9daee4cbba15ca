package repository

import (
	"context"
	"testing"
	"time"

	"pawtopia/internal/models"
	"pawtopia/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestListing(title string, creator uint, approved bool, animalType string) *models.Listing {
	return &models.Listing{
		Title:       title,
		CreatedDate: time.Now(),
		CreatedBy:   creator,
		Details: datatypes.NewJSONType(models.ListingDetails{
			AnimalType: animalType,
			Name:       title,
			Location:   models.Location{Country: "USA", City: "Portland"},
			Age:        "adult",
			Gender:     "female",
		}),
		IsApproved: approved,
	}
}

func TestListingCreateAndGet(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	listing := newTestListing("Whiskers", 1, false, "cat")
	require.NoError(t, repo.Create(ctx, listing))
	require.NotZero(t, listing.ID)

	got, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Whiskers", got.Title)
	assert.False(t, got.IsApproved)
	assert.Equal(t, "cat", got.Details.Data().AnimalType)
}

func TestListingGetByIDNotFound(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, 404, fiberStatus(err))
}

func TestListingSetApproved(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	listing := newTestListing("Buddy", 1, false, "dog")
	require.NoError(t, repo.Create(ctx, listing))

	approved, err := repo.SetApproved(ctx, listing.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	got, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
}

func TestListingSetApprovedNotFound(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))

	_, err := repo.SetApproved(context.Background(), 999, true)
	require.Error(t, err)
	assert.Equal(t, 404, fiberStatus(err))
}

func TestListingDelete(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	listing := newTestListing("Buddy", 1, true, "dog")
	require.NoError(t, repo.Create(ctx, listing))
	require.NoError(t, repo.Delete(ctx, listing.ID))

	_, err := repo.GetByID(ctx, listing.ID)
	require.Error(t, err)
	assert.Equal(t, 404, fiberStatus(err))

	err = repo.Delete(ctx, listing.ID)
	require.Error(t, err)
	assert.Equal(t, 404, fiberStatus(err))
}

func TestListingListApprovedOnlyScope(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestListing("Approved", 1, true, "cat")))
	require.NoError(t, repo.Create(ctx, newTestListing("Pending", 1, false, "cat")))

	q, err := query.Parse(query.Params{})
	require.NoError(t, err)

	listings, total, err := repo.List(ctx, q, ApprovedOnly)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Approved", listings[0].Title)
}

func TestListingListCreatedByScope(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestListing("Mine", 1, false, "cat")))
	require.NoError(t, repo.Create(ctx, newTestListing("Theirs", 2, true, "dog")))

	q, err := query.Parse(query.Params{})
	require.NoError(t, err)

	listings, total, err := repo.List(ctx, q, CreatedBy(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Mine", listings[0].Title)
}

func TestListingListNestedJSONFilter(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestListing("Whiskers", 1, true, "cat")))
	require.NoError(t, repo.Create(ctx, newTestListing("Buddy", 1, true, "dog")))

	q, err := query.Parse(query.Params{Filter: `{"details.animalType": "cat"}`})
	require.NoError(t, err)

	listings, total, err := repo.List(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Whiskers", listings[0].Title)
}

func TestListingListTextANDsWithFilter(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestListing("Fluffy cat", 1, true, "cat")))
	require.NoError(t, repo.Create(ctx, newTestListing("Fluffy dog", 1, true, "dog")))
	require.NoError(t, repo.Create(ctx, newTestListing("Plain cat", 1, true, "cat")))

	q, err := query.Parse(query.Params{
		Text:   "Fluffy",
		Filter: `{"details.animalType": "cat"}`,
	})
	require.NoError(t, err)

	listings, total, err := repo.List(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.Equal(t, "Fluffy cat", listings[0].Title)
}

func TestListingListSortAndPaging(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Charlie", "Bravo"} {
		require.NoError(t, repo.Create(ctx, newTestListing(title, 1, true, "cat")))
	}

	q, err := query.Parse(query.Params{Sort: "title:desc", Limit: 2})
	require.NoError(t, err)

	listings, total, err := repo.List(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, listings, 2)
	assert.Equal(t, "Charlie", listings[0].Title)
	assert.Equal(t, "Bravo", listings[1].Title)
}

func TestListingListByIDsSkipsMissing(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	listing := newTestListing("Whiskers", 1, true, "cat")
	require.NoError(t, repo.Create(ctx, listing))

	listings, err := repo.ListByIDs(ctx, []uint{listing.ID, 999})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, listing.ID, listings[0].ID)

	listings, err = repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestListingExists(t *testing.T) {
	repo := NewListingRepository(setupTestDB(t))
	ctx := context.Background()

	listing := newTestListing("Whiskers", 1, true, "cat")
	require.NoError(t, repo.Create(ctx, listing))

	exists, err := repo.Exists(ctx, listing.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}
