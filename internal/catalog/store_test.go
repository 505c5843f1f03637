package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	defaults := Defaults{
		LanguageID:    2,
		StoreID:       0,
		LayoutID:      0,
		StockStatusID: 7,
		Quantity:      10,
		Minimum:       1,
		Shipping:      1,
		Subtract:      0,
		WeightClassID: 1,
		LengthClassID: 2,
	}

	return NewStore(sqlx.NewDb(db, "sqlmock"), defaults), mock
}

func TestResolveCategoryID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT category_id FROM category_description WHERE name = \$1`).
		WithArgs("Kitchen").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow(42))

	id, err := store.ResolveCategoryID(ctx, "Kitchen")
	if err != nil {
		t.Fatalf("ResolveCategoryID failed: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected category id 42, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestResolveCategoryIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT category_id FROM category_description WHERE name = \$1`).
		WithArgs("Nowhere").
		WillReturnRows(sqlmock.NewRows([]string{"category_id"}))

	_, err := store.ResolveCategoryID(ctx, "Nowhere")

	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if rerr.Kind != KindCategory {
		t.Errorf("Expected kind %q, got %q", KindCategory, rerr.Kind)
	}
}

func TestResolveManufacturerIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT manufacturer_id FROM manufacturer WHERE name = \$1 LIMIT 1`).
		WithArgs("Nobody").
		WillReturnRows(sqlmock.NewRows([]string{"manufacturer_id"}))

	_, err := store.ResolveManufacturerID(ctx, "Nobody")

	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if rerr.Kind != KindManufacturer {
		t.Errorf("Expected kind %q, got %q", KindManufacturer, rerr.Kind)
	}
}

func TestResolveAttributeGroupIDUsesLanguage(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT attribute_group_id FROM attribute_group_description`).
		WithArgs("Appliances", 2).
		WillReturnRows(sqlmock.NewRows([]string{"attribute_group_id"}).AddRow(5))

	id, err := store.ResolveAttributeGroupID(ctx, "Appliances")
	if err != nil {
		t.Fatalf("ResolveAttributeGroupID failed: %v", err)
	}
	if id != 5 {
		t.Errorf("Expected group id 5, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestResolveAttributeID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT attribute_id FROM attribute_description`).
		WithArgs("color", 2).
		WillReturnRows(sqlmock.NewRows([]string{"attribute_id"}).AddRow(17))
	mock.ExpectQuery(`SELECT attribute_id FROM attribute\s+WHERE attribute_id = \$1 AND attribute_group_id = \$2`).
		WithArgs(17, 5).
		WillReturnRows(sqlmock.NewRows([]string{"attribute_id"}).AddRow(17))

	id, err := store.ResolveAttributeID(ctx, 5, "color")
	if err != nil {
		t.Fatalf("ResolveAttributeID failed: %v", err)
	}
	if id != 17 {
		t.Errorf("Expected attribute id 17, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestResolveAttributeIDWrongGroup(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT attribute_id FROM attribute_description`).
		WithArgs("color", 2).
		WillReturnRows(sqlmock.NewRows([]string{"attribute_id"}).AddRow(17))
	mock.ExpectQuery(`SELECT attribute_id FROM attribute\s+WHERE attribute_id = \$1 AND attribute_group_id = \$2`).
		WithArgs(17, 5).
		WillReturnRows(sqlmock.NewRows([]string{"attribute_id"}))

	_, err := store.ResolveAttributeID(ctx, 5, "color")

	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ResolutionError, got %v", err)
	}
	if rerr.Kind != KindGroupMembership {
		t.Errorf("Expected kind %q, got %q", KindGroupMembership, rerr.Kind)
	}
	if rerr.GroupID != 5 {
		t.Errorf("Expected group id 5 in error, got %d", rerr.GroupID)
	}
}

func TestLookupProductID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT product_id FROM product WHERE sku = \$1 LIMIT 1`).
		WithArgs("ABC-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(101))

	id, found, err := store.LookupProductID(ctx, "ABC-1")
	if err != nil {
		t.Fatalf("LookupProductID failed: %v", err)
	}
	if !found || id != 101 {
		t.Errorf("Expected (101, true), got (%d, %v)", id, found)
	}
}

func TestLookupProductIDAbsent(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT product_id FROM product WHERE sku = \$1 LIMIT 1`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	id, found, err := store.LookupProductID(ctx, "NOPE")
	if err != nil {
		t.Fatalf("LookupProductID failed: %v", err)
	}
	if found || id != 0 {
		t.Errorf("Expected (0, false), got (%d, %v)", id, found)
	}
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO product`).
		WithArgs("M1", "ABC-1", 10, 7, int64(9), 1, now, 19.99, 1, 2, 0, 1, 1, 1, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(101))
	mock.ExpectCommit()

	err := store.WithinTx(ctx, func(tx *Tx) error {
		id, err := tx.InsertProduct(ctx, ProductFields{
			SKU:            "ABC-1",
			Name:           "Kettle",
			Model:          "M1",
			ManufacturerID: 9,
			Price:          19.99,
		}, now)
		if err != nil {
			return err
		}
		if id != 101 {
			t.Errorf("Expected product id 101, got %d", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := store.WithinTx(ctx, func(tx *Tx) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped boom error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}

func TestReplaceAttributes(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM product_attribute WHERE product_id = \$1`).
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO product_attribute`).
		WithArgs(int64(101), int64(17), 2, "Red").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.WithinTx(ctx, func(tx *Tx) error {
		if err := tx.DeleteAttributes(ctx, 101); err != nil {
			return err
		}
		return tx.InsertAttributes(ctx, 101, []AttributeValue{
			{GroupName: "Appliances", GroupID: 5, Name: "color", ID: 17, Text: "Red"},
		})
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("There were unfulfilled expectations: %s", err)
	}
}
