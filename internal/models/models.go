package models

import (
	"time"
)

type UserRow struct {
	ID           int       `db:"user_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	IsStaff      bool      `db:"is_staff"`
	CreatedAt    time.Time `db:"created_at"`
}

type CategoryRow struct {
	ID   int    `db:"category_id"`
	Name string `db:"category_name"`
}

type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (r *CategoryRow) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:   r.ID,
		Name: r.Name,
	}
}

type CategoryRequest struct {
	Name *string `json:"name"`
}

type ProductRow struct {
	ID           int       `db:"product_id"`
	Name         string    `db:"product_name"`
	CategoryID   int       `db:"category_id"`
	CategoryName string    `db:"category_name"`
	Size         *string   `db:"size"`
	Price        float64   `db:"price"`
	Stock        int       `db:"stock"`
	Description  *string   `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type ProductResponse struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Category    CategoryResponse `json:"category"`
	Size        *string          `json:"size"`
	Price       float64          `json:"price"`
	Stock       int              `json:"stock"`
	Description *string          `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (r *ProductRow) ToResponse() ProductResponse {
	return ProductResponse{
		ID:   r.ID,
		Name: r.Name,
		Category: CategoryResponse{
			ID:   r.CategoryID,
			Name: r.CategoryName,
		},
		Size:        r.Size,
		Price:       r.Price,
		Stock:       r.Stock,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ProductRequest covers both create and update. The category may be
// referenced by id or created inline by name, matching the original
// admin form.
type ProductRequest struct {
	Name        *string  `json:"name"`
	CategoryID  *int     `json:"category_id"`
	NewCategory *string  `json:"new_category"`
	Size        *string  `json:"size"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
}

type OrderRow struct {
	ID         int       `db:"order_id"`
	Reference  string    `db:"reference"`
	UserID     int       `db:"user_id"`
	Username   string    `db:"username"`
	TotalPrice float64   `db:"total_price"`
	CreatedAt  time.Time `db:"created_at"`
}

type OrderItemRow struct {
	ID          int     `db:"order_item_id"`
	OrderID     int     `db:"order_id"`
	ProductID   int     `db:"product_id"`
	ProductName string  `db:"product_name"`
	Quantity    int     `db:"quantity"`
	Price       float64 `db:"price"`
}

type OrderItemResponse struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

func (r *OrderItemRow) ToResponse() OrderItemResponse {
	return OrderItemResponse{
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Price:       r.Price,
	}
}

type OrderResponse struct {
	ID         int                 `json:"id"`
	Reference  string              `json:"reference"`
	UserID     int                 `json:"user_id"`
	Username   string              `json:"username"`
	TotalPrice float64             `json:"total_price"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}

func (r *OrderRow) ToResponse(items []OrderItemResponse) OrderResponse {
	return OrderResponse{
		ID:         r.ID,
		Reference:  r.Reference,
		UserID:     r.UserID,
		Username:   r.Username,
		TotalPrice: r.TotalPrice,
		Items:      items,
		CreatedAt:  r.CreatedAt,
	}
}

// OrderLine is one cart line handed to order creation; the price is
// resolved server-side at checkout time.
type OrderLine struct {
	ProductID int
	Quantity  int
}

type CartItemResponse struct {
	Product    ProductResponse `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice float64         `json:"total_price"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}
