package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ResolveCategoryID looks up a category id by its display name. Category
// names are locale-independent in the source schema.
func (s *Store) ResolveCategoryID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT category_id FROM category_description WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &ResolutionError{Kind: KindCategory, Name: name}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve category '%s': %w", name, err)
	}
	return id, nil
}

// ResolveManufacturerID looks up a manufacturer id by name.
func (s *Store) ResolveManufacturerID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT manufacturer_id FROM manufacturer WHERE name = $1 LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &ResolutionError{Kind: KindManufacturer, Name: name}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve manufacturer '%s': %w", name, err)
	}
	return id, nil
}

// ResolveAttributeGroupID looks up an attribute group id by its localized
// name.
func (s *Store) ResolveAttributeGroupID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT attribute_group_id FROM attribute_group_description
		 WHERE name = $1 AND language_id = $2`, name, s.defaults.LanguageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &ResolutionError{Kind: KindAttributeGroup, Name: name}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve attribute group '%s': %w", name, err)
	}
	return id, nil
}

// ResolveAttributeID looks up an attribute id by its localized name, then
// verifies the attribute actually belongs to groupID. A name that exists
// under a different group is a distinct error from an unknown name.
func (s *Store) ResolveAttributeID(ctx context.Context, groupID int64, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT attribute_id FROM attribute_description
		 WHERE name = $1 AND language_id = $2`, name, s.defaults.LanguageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &ResolutionError{Kind: KindAttribute, Name: name}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve attribute '%s': %w", name, err)
	}

	var linked int64
	err = s.db.GetContext(ctx, &linked,
		`SELECT attribute_id FROM attribute
		 WHERE attribute_id = $1 AND attribute_group_id = $2`, id, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &ResolutionError{Kind: KindGroupMembership, Name: name, GroupID: groupID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check group of attribute '%s': %w", name, err)
	}

	return id, nil
}

// LookupProductID finds the product carrying sku. Absence is a normal
// outcome, reported via found, not an error.
func (s *Store) LookupProductID(ctx context.Context, sku string) (id int64, found bool, err error) {
	err = s.db.GetContext(ctx, &id,
		`SELECT product_id FROM product WHERE sku = $1 LIMIT 1`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up product by sku '%s': %w", sku, err)
	}
	return id, true, nil
}

// ProductExists re-checks that a previously resolved product id still
// references a row.
func (s *Store) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT product_id FROM product WHERE product_id = $1`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check product id %d: %w", productID, err)
	}
	return true, nil
}
