package services

import (
	"time"

	"store-service/internal/domain"
)

func testProduct(id uint64, name string, price float64, stock int) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func testCart(id, userID uint64, items ...domain.CartItem) *domain.Cart {
	return &domain.Cart{
		ID:        id,
		UserID:    userID,
		Items:     items,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func testCartItem(id, cartID, productID uint64, quantity int) domain.CartItem {
	return domain.CartItem{
		ID:        id,
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

const (
	testUserID    = uint64(1)
	testCartID    = uint64(10)
	testProductID = uint64(100)
)
