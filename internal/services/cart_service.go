package services

import (
	"context"
	"fmt"

	"store-service/internal/domain"
	"store-service/internal/repository"
)

// CartItemView carries the product fields a cart page needs, priced at read
// time. Line totals and the aggregates are recomputed on every read.
type CartItemView struct {
	ProductID uint64  `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type CartView struct {
	ID          uint64         `json:"id"`
	UserID      uint64         `json:"userId"`
	Items       []CartItemView `json:"items"`
	TotalAmount float64        `json:"totalAmount"`
	TotalItems  int            `json:"totalItems"`
}

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart loads the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID uint64) (*CartView, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint64, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if item != nil {
		newQuantity += item.Quantity
	}
	if newQuantity > product.StockQuantity {
		return nil, &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: newQuantity,
			Available: product.StockQuantity,
		}
	}

	if item != nil {
		item.Quantity = newQuantity
		err = s.carts.SaveItem(ctx, item)
	} else {
		err = s.carts.CreateItem(ctx, &domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := s.carts.TouchCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.viewByUser(ctx, userID)
}

// UpdateItemQuantity sets an existing line's quantity. A non-positive
// quantity behaves exactly like RemoveItem.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID uint64, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.carts.FindByUserWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	item, err := s.carts.FindItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: quantity,
			Available: product.StockQuantity,
		}
	}

	item.Quantity = quantity
	if err := s.carts.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.carts.TouchCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.viewByUser(ctx, userID)
}

// RemoveItem deletes the line if present; an absent line is a no-op and the
// current cart is still returned.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint64) (*CartView, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		if err := s.carts.DeleteItem(ctx, item); err != nil {
			return nil, err
		}
		if err := s.carts.TouchCart(ctx, cart.ID); err != nil {
			return nil, err
		}
	}
	return s.viewByUser(ctx, userID)
}

// ClearCart deletes every line; a missing cart is a no-op.
func (s *CartService) ClearCart(ctx context.Context, userID uint64) error {
	cart, err := s.carts.FindByUserWithItems(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	if err := s.carts.DeleteItems(ctx, cart.ID); err != nil {
		return err
	}
	return s.carts.TouchCart(ctx, cart.ID)
}

func (s *CartService) getOrCreateCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	cart, err := s.carts.FindByUserWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &domain.Cart{UserID: userID}
	if err := s.carts.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) availableProduct(ctx context.Context, productID uint64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductUnavailable)
	}
	return product, nil
}

func (s *CartService) viewByUser(ctx context.Context, userID uint64) (*CartView, error) {
	cart, err := s.carts.FindByUserWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return s.buildView(ctx, cart)
}

func (s *CartService) buildView(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	view := &CartView{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartItemView, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		lineView := CartItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			lineView.Name = product.Name
			lineView.ImageURL = product.ImageURL
			lineView.UnitPrice = product.Price
			lineView.LineTotal = float64(item.Quantity) * product.Price
		}
		view.Items = append(view.Items, lineView)
		view.TotalAmount += lineView.LineTotal
		view.TotalItems += item.Quantity
	}
	return view, nil
}
