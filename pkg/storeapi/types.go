package storeapi

import "time"

// Rating is the review summary attached to every product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product mirrors the /products collection.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// CartLine is a single product/quantity pair inside a cart.
type CartLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Cart mirrors the /carts collection.
type Cart struct {
	ID       int        `json:"id"`
	UserID   int        `json:"userId"`
	Date     time.Time  `json:"date"`
	Products []CartLine `json:"products"`
}

// Name holds the split user name.
type Name struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Address holds the user postal address; only City is consumed downstream.
type Address struct {
	City    string `json:"city"`
	Street  string `json:"street,omitempty"`
	Number  int    `json:"number,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
}

// User mirrors the /users collection.
type User struct {
	ID       int     `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username,omitempty"`
	Phone    string  `json:"phone"`
	Name     Name    `json:"name"`
	Address  Address `json:"address"`
}

// Collections bundles the three raw collections a dashboard snapshot is built from.
type Collections struct {
	Products []Product
	Carts    []Cart
	Users    []User
}
