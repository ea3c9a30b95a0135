package storage

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
)

type docUsers struct {
	collection[models.User]
}

func (r *docUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(id)
}

func (r *docUsers) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.first(func(u *models.User) bool {
		return (u.Phone != "" && u.Phone == identifier) ||
			(u.Email != "" && u.Email == identifier)
	})
}

func (r *docUsers) List(ctx context.Context) ([]models.User, error) {
	users, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *docUsers) Create(ctx context.Context, user *models.User) error {
	stamp(&user.BaseModel)
	return r.put(ctx, user.ID.String(), user)
}

func (r *docUsers) Update(ctx context.Context, user *models.User) error {
	stamp(&user.BaseModel)
	return r.put(ctx, user.ID.String(), user)
}

func (r *docUsers) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docAddresses struct {
	collection[models.Address]
}

func (r *docAddresses) List(ctx context.Context, userID string) ([]models.Address, error) {
	addresses, err := r.where(func(a *models.Address) bool { return a.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].CreatedAt.After(addresses[j].CreatedAt)
	})
	return addresses, nil
}

func (r *docAddresses) FindByID(ctx context.Context, id string) (*models.Address, error) {
	return r.get(id)
}

func (r *docAddresses) Create(ctx context.Context, address *models.Address) error {
	stamp(&address.BaseModel)
	return r.put(ctx, address.ID.String(), address)
}

func (r *docAddresses) Update(ctx context.Context, address *models.Address) error {
	stamp(&address.BaseModel)
	return r.put(ctx, address.ID.String(), address)
}

func (r *docAddresses) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docCarts struct {
	collection[models.CartItem]
}

func (r *docCarts) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := r.where(func(i *models.CartItem) bool { return i.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// Add accumulates quantity on a duplicate product under one file lock, so
// concurrent adds of the same product never lose an increment.
func (r *docCarts) Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	var result models.CartItem
	err := r.files.Update(ctx, r.file, func(doc jsondb.Document) (jsondb.Document, error) {
		for key, raw := range doc {
			var existing models.CartItem
			if err := json.Unmarshal(raw, &existing); err != nil {
				continue
			}
			if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
				existing.Quantity += item.Quantity
				stamp(&existing.BaseModel)
				encoded, err := json.Marshal(&existing)
				if err != nil {
					return nil, err
				}
				doc[key] = encoded
				result = existing
				return doc, nil
			}
		}

		stamp(&item.BaseModel)
		encoded, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		doc[item.ID.String()] = encoded
		result = *item
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *docCarts) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	existing, err := r.first(func(i *models.CartItem) bool {
		return i.UserID == userID && i.ProductID == productID
	})
	if err != nil {
		return nil, err
	}
	return r.mutate(ctx, existing.ID.String(), func(i *models.CartItem) error {
		i.Quantity = quantity
		stamp(&i.BaseModel)
		return nil
	})
}

func (r *docCarts) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.removeWhere(ctx, func(i *models.CartItem) bool {
		return i.UserID == userID && i.ProductID == productID
	})
	return err
}

func (r *docCarts) Clear(ctx context.Context, userID string) error {
	_, err := r.removeWhere(ctx, func(i *models.CartItem) bool {
		return i.UserID == userID
	})
	return err
}

type docWishlists struct {
	collection[models.WishlistItem]
}

func (r *docWishlists) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	items, err := r.where(func(i *models.WishlistItem) bool { return i.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Add is idempotent; the duplicate check runs under the file lock.
func (r *docWishlists) Add(ctx context.Context, userID, productID string) (*models.WishlistItem, error) {
	var result models.WishlistItem
	err := r.files.Update(ctx, r.file, func(doc jsondb.Document) (jsondb.Document, error) {
		for _, raw := range doc {
			var existing models.WishlistItem
			if err := json.Unmarshal(raw, &existing); err != nil {
				continue
			}
			if existing.UserID == userID && existing.ProductID == productID {
				result = existing
				return doc, nil
			}
		}

		item := models.WishlistItem{UserID: userID, ProductID: productID}
		stamp(&item.BaseModel)
		encoded, err := json.Marshal(&item)
		if err != nil {
			return nil, err
		}
		doc[item.ID.String()] = encoded
		result = item
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *docWishlists) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.removeWhere(ctx, func(i *models.WishlistItem) bool {
		return i.UserID == userID && i.ProductID == productID
	})
	return err
}
