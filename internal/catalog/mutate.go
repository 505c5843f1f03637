package catalog

import (
	"context"
	"fmt"
	"time"
)

// InsertProduct creates the core product row with the configured column
// defaults and returns its generated id.
func (t *Tx) InsertProduct(ctx context.Context, p ProductFields, now time.Time) (int64, error) {
	var productID int64
	err := t.tx.QueryRowxContext(ctx,
		`INSERT INTO product
		 (model, sku, quantity, stock_status_id, manufacturer_id, shipping,
		  date_available, price, weight_class_id, length_class_id, subtract,
		  minimum, sort_order, status, date_added, date_modified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING product_id`,
		p.Model, p.SKU, t.defaults.Quantity, t.defaults.StockStatusID,
		p.ManufacturerID, t.defaults.Shipping, now, p.Price,
		t.defaults.WeightClassID, t.defaults.LengthClassID, t.defaults.Subtract,
		t.defaults.Minimum, 1, 1, now, now,
	).Scan(&productID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product '%s': %w", p.SKU, err)
	}
	return productID, nil
}

// UpdateProduct refreshes model, manufacturer, price and the modification
// timestamp of an existing product.
func (t *Tx) UpdateProduct(ctx context.Context, productID int64, p ProductFields, now time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE product SET model = $1, manufacturer_id = $2, price = $3, date_modified = $4
		 WHERE product_id = $5`,
		p.Model, p.ManufacturerID, p.Price, now, productID)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	return nil
}

// LinkCategory attaches the product to its category.
func (t *Tx) LinkCategory(ctx context.Context, productID, categoryID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO product_to_category (product_id, category_id) VALUES ($1, $2)`,
		productID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to link product %d to category %d: %w", productID, categoryID, err)
	}
	return nil
}

// LinkStore attaches the product to the configured store.
func (t *Tx) LinkStore(ctx context.Context, productID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO product_to_store (product_id, store_id) VALUES ($1, $2)`,
		productID, t.defaults.StoreID)
	if err != nil {
		return fmt.Errorf("failed to link product %d to store: %w", productID, err)
	}
	return nil
}

// LinkLayout attaches the product to the configured layout.
func (t *Tx) LinkLayout(ctx context.Context, productID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO product_to_layout (product_id, store_id, layout_id) VALUES ($1, $2, $3)`,
		productID, t.defaults.StoreID, t.defaults.LayoutID)
	if err != nil {
		return fmt.Errorf("failed to link product %d to layout: %w", productID, err)
	}
	return nil
}

// InsertURLAlias stores the public lookup keyword for the product.
func (t *Tx) InsertURLAlias(ctx context.Context, productID int64, keyword string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO url_alias (query, keyword) VALUES ($1, $2)`,
		fmt.Sprintf("product_id=%d", productID), keyword)
	if err != nil {
		return fmt.Errorf("failed to insert url alias for product %d: %w", productID, err)
	}
	return nil
}

// InsertDescription stores the localized name, description and meta
// title. The meta title mirrors the product name.
func (t *Tx) InsertDescription(ctx context.Context, productID int64, p ProductFields) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO product_description (product_id, language_id, name, description, meta_title)
		 VALUES ($1, $2, $3, $4, $5)`,
		productID, t.defaults.LanguageID, p.Name, p.Description, p.Name)
	if err != nil {
		return fmt.Errorf("failed to insert description for product %d: %w", productID, err)
	}
	return nil
}

// UpdateDescription refreshes the localized fields of an existing
// product.
func (t *Tx) UpdateDescription(ctx context.Context, productID int64, p ProductFields) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE product_description SET name = $1, description = $2, meta_title = $3
		 WHERE product_id = $4 AND language_id = $5`,
		p.Name, p.Description, p.Name, productID, t.defaults.LanguageID)
	if err != nil {
		return fmt.Errorf("failed to update description for product %d: %w", productID, err)
	}
	return nil
}

// InsertAttributes stores the resolved attribute values for the product.
func (t *Tx) InsertAttributes(ctx context.Context, productID int64, attrs []AttributeValue) error {
	for _, attr := range attrs {
		_, err := t.tx.ExecContext(ctx,
			`INSERT INTO product_attribute (product_id, attribute_id, language_id, text)
			 VALUES ($1, $2, $3, $4)`,
			productID, attr.ID, t.defaults.LanguageID, attr.Text)
		if err != nil {
			return fmt.Errorf("failed to insert attribute '%s' for product %d: %w", attr.Name, productID, err)
		}
	}
	return nil
}

// DeleteAttributes removes every attribute value of the product. The
// update path replaces the whole set rather than diffing it.
func (t *Tx) DeleteAttributes(ctx context.Context, productID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`DELETE FROM product_attribute WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete attributes of product %d: %w", productID, err)
	}
	return nil
}
