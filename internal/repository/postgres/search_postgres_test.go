package postgres

import (
	"context"
	"testing"

	"ifinsure/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func searchRows(entries ...model.SearchEntry) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "entity_type", "entity_id", "title", "subtitle", "content", "keywords",
		"icon", "url", "visibility", "owner_id", "weight", "created_at", "updated_at",
	})
	for _, e := range entries {
		rows.AddRow(e.ID, e.EntityType, e.EntityID, e.Title, e.Subtitle, e.Content, e.Keywords,
			e.Icon, e.URL, e.Visibility, e.OwnerID, e.Weight, e.CreatedAt, e.UpdatedAt)
	}
	return rows
}

func TestSearchPostgres_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSearchPostgres(db)
	ctx := context.Background()

	entry := model.SearchEntry{
		ID: "s1", EntityType: model.EntityPolicy, EntityID: "p1",
		Title: "POL-202608-00001", Visibility: model.VisibilityInternal, Weight: 10,
	}

	mock.ExpectQuery("SELECT (.+) FROM search_entries").
		WithArgs("POL", 20).
		WillReturnRows(searchRows(entry))

	items, err := repo.Query(ctx, "POL", 20)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "POL-202608-00001", items[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPostgres_Query_EscapesWildcards(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSearchPostgres(db)
	ctx := context.Background()

	// "%" and "_" must reach the driver escaped so they match literally.
	mock.ExpectQuery("SELECT (.+) FROM search_entries").
		WithArgs(`\%\_100\\`, 20).
		WillReturnRows(searchRows())

	items, err := repo.Query(ctx, `%_100\`, 20)

	assert.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
