// Package importer reconciles workbook rows against the product catalog:
// each row is validated, its names resolved to catalog ids, and then
// created or updated by its sku inside a single transaction.
package importer

import (
	"context"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"ocimport/internal/catalog"
	"ocimport/internal/translit"
	"ocimport/internal/workbook"
)

// attrPrefix marks workbook fields holding attribute values. The
// attribute name is the remainder; the group is named by the sheet.
const attrPrefix = "attr_"

// requiredFields must be non-empty in every row, checked in this order.
var requiredFields = []string{"sku", "name", "manufacturer", "model", "category"}

// Importer drives the per-row reconciliation. It owns no state beyond
// the store handle and is strictly sequential.
type Importer struct {
	store        *catalog.Store
	dataStartRow int
	debug        bool
}

// New builds an Importer. dataStartRow is the 1-based workbook row of
// the first data row, used to tag errors with their visible position.
func New(store *catalog.Store, dataStartRow int, debug bool) *Importer {
	return &Importer{store: store, dataStartRow: dataStartRow, debug: debug}
}

func (i *Importer) debugf(format string, args ...any) {
	if i.debug {
		log.Printf(format, args...)
	}
}

// Run processes every sheet in order, every row in order. The first
// failing row aborts the whole run so the source data can be fixed and
// the import rerun; reruns are safe because the create-or-update
// decision is keyed on sku.
func (i *Importer) Run(ctx context.Context, sheets []workbook.Sheet) error {
	for _, sheet := range sheets {
		for idx, row := range sheet.Rows {
			if err := i.ProcessRow(ctx, sheet.Name, row); err != nil {
				return &RowError{Sheet: sheet.Name, Row: i.dataStartRow + idx, Err: err}
			}
		}
	}
	return nil
}

// ProcessRow reconciles one row. sheetName doubles as the attribute
// group name for every attr_ field in the row.
func (i *Importer) ProcessRow(ctx context.Context, sheetName string, row workbook.Row) error {
	for _, field := range requiredFields {
		if row[field] == "" {
			return &ValidationError{Field: field}
		}
	}

	// A missing category is deferred: the update path never touches the
	// category link, so only the create path fails on it.
	categoryID, catErr := i.store.ResolveCategoryID(ctx, row["category"])
	if catErr != nil && !isResolution(catErr) {
		return catErr
	}

	attrs, err := i.extractAttributes(ctx, sheetName, row)
	if err != nil {
		return err
	}

	rec, err := recordFromRow(row)
	if err != nil {
		return err
	}

	productID, exists, err := i.store.LookupProductID(ctx, rec.SKU)
	if err != nil {
		return err
	}

	if exists {
		return i.update(ctx, productID, rec, attrs)
	}
	return i.create(ctx, rec, categoryID, catErr, attrs)
}

// Record is one validated, normalized product row.
type Record struct {
	catalog.ProductFields
	Manufacturer string
	Category     string
}

func recordFromRow(row workbook.Row) (Record, error) {
	price := 0.0
	if raw := row["price"]; raw != "" {
		var err error
		price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, &ValidationError{Field: "price"}
		}
	}

	return Record{
		ProductFields: catalog.ProductFields{
			SKU:         row["sku"],
			Name:        row["name"],
			Model:       row["model"],
			Description: row["description"],
			Price:       price,
		},
		Manufacturer: row["manufacturer"],
		Category:     row["category"],
	}, nil
}

// extractAttributes partitions attr_-prefixed fields out of the row into
// resolved attribute values. The first unresolvable group or attribute
// name aborts the row.
func (i *Importer) extractAttributes(ctx context.Context, groupName string, row workbook.Row) ([]catalog.AttributeValue, error) {
	groupID, err := i.store.ResolveAttributeGroupID(ctx, groupName)
	if err != nil {
		return nil, err
	}

	// Deterministic field order keeps resolution and insert order stable
	// across runs.
	fields := make([]string, 0, len(row))
	for field := range row {
		if strings.HasPrefix(field, attrPrefix) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	var attrs []catalog.AttributeValue
	for _, field := range fields {
		name := strings.TrimPrefix(field, attrPrefix)
		text := row[field]
		id, err := i.store.ResolveAttributeID(ctx, groupID, name)
		if err != nil {
			return nil, err
		}

		attrs = append(attrs, catalog.AttributeValue{
			GroupName: groupName,
			GroupID:   groupID,
			Name:      name,
			ID:        id,
			Text:      text,
		})
	}

	for _, attr := range attrs {
		delete(row, attrPrefix+attr.Name)
	}

	return attrs, nil
}

// create inserts the product with its links, url alias, localized
// description and attributes, all in one transaction.
func (i *Importer) create(ctx context.Context, rec Record, categoryID int64, catErr error, attrs []catalog.AttributeValue) error {
	manufacturerID, err := i.store.ResolveManufacturerID(ctx, rec.Manufacturer)
	if err != nil {
		return err
	}
	if catErr != nil {
		return catErr
	}
	rec.ManufacturerID = manufacturerID

	now := time.Now()
	var productID int64

	err = i.store.WithinTx(ctx, func(tx *catalog.Tx) error {
		var err error
		productID, err = tx.InsertProduct(ctx, rec.ProductFields, now)
		if err != nil {
			return err
		}
		if err := tx.LinkCategory(ctx, productID, categoryID); err != nil {
			return err
		}
		if err := tx.LinkStore(ctx, productID); err != nil {
			return err
		}
		if err := tx.LinkLayout(ctx, productID); err != nil {
			return err
		}
		if err := tx.InsertURLAlias(ctx, productID, translit.Slugify(rec.Name)); err != nil {
			return err
		}
		if err := tx.InsertDescription(ctx, productID, rec.ProductFields); err != nil {
			return err
		}
		return tx.InsertAttributes(ctx, productID, attrs)
	})
	if err != nil {
		return err
	}

	i.debugf("New product '%s' successfully created with id %d", rec.Name, productID)
	return nil
}

// update refreshes the core fields, localized description and attribute
// set of an existing product. The category link, url alias and
// store/layout links are intentionally left untouched on update.
func (i *Importer) update(ctx context.Context, productID int64, rec Record, attrs []catalog.AttributeValue) error {
	ok, err := i.store.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return &catalog.IntegrityError{ProductID: productID}
	}

	manufacturerID, err := i.store.ResolveManufacturerID(ctx, rec.Manufacturer)
	if err != nil {
		return err
	}
	rec.ManufacturerID = manufacturerID

	now := time.Now()
	err = i.store.WithinTx(ctx, func(tx *catalog.Tx) error {
		if err := tx.UpdateProduct(ctx, productID, rec.ProductFields, now); err != nil {
			return err
		}
		if err := tx.DeleteAttributes(ctx, productID); err != nil {
			return err
		}
		if err := tx.InsertAttributes(ctx, productID, attrs); err != nil {
			return err
		}
		return tx.UpdateDescription(ctx, productID, rec.ProductFields)
	})
	if err != nil {
		return err
	}

	i.debugf("Existing product '%s' with id %d successfully updated", rec.Name, productID)
	return nil
}

func isResolution(err error) bool {
	var rerr *catalog.ResolutionError
	return errors.As(err, &rerr)
}
