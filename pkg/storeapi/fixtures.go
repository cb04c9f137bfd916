package storeapi

import "time"

// DemoData returns a small offline catalog shaped like the public API.
func DemoData() MockData {
	day := func(d int) time.Time { return time.Date(2020, time.March, d, 0, 0, 0, 0, time.UTC) }
	return MockData{
		Products: []Product{
			{ID: 1, Title: "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops", Price: 109.95, Category: "men's clothing", Rating: Rating{Rate: 3.9, Count: 120}},
			{ID: 2, Title: "Mens Casual Premium Slim Fit T-Shirts", Price: 22.3, Category: "men's clothing", Rating: Rating{Rate: 4.1, Count: 259}},
			{ID: 3, Title: "Mens Cotton Jacket", Price: 55.99, Category: "men's clothing", Rating: Rating{Rate: 4.7, Count: 500}},
			{ID: 4, Title: "John Hardy Women's Legends Naga Bracelet", Price: 695, Category: "jewelery", Rating: Rating{Rate: 4.6, Count: 400}},
			{ID: 5, Title: "WD 2TB Elements Portable External Hard Drive", Price: 64, Category: "electronics", Rating: Rating{Rate: 3.3, Count: 203}},
			{ID: 6, Title: "BIYLACLESEN Women's 3-in-1 Snowboard Jacket", Price: 56.99, Category: "women's clothing", Rating: Rating{Rate: 2.6, Count: 235}},
		},
		Carts: []Cart{
			{ID: 1, UserID: 1, Date: day(2), Products: []CartLine{{ProductID: 1, Quantity: 4}, {ProductID: 2, Quantity: 1}, {ProductID: 3, Quantity: 6}}},
			{ID: 2, UserID: 1, Date: day(1), Products: []CartLine{{ProductID: 2, Quantity: 4}, {ProductID: 1, Quantity: 10}, {ProductID: 5, Quantity: 2}}},
			{ID: 3, UserID: 2, Date: day(1), Products: []CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 9, Quantity: 1}}},
			{ID: 4, UserID: 3, Date: day(1), Products: []CartLine{{ProductID: 1, Quantity: 4}}},
			{ID: 5, UserID: 3, Date: day(1), Products: []CartLine{{ProductID: 4, Quantity: 1}, {ProductID: 6, Quantity: 3}}},
		},
		Users: []User{
			{ID: 1, Email: "john@gmail.com", Username: "johnd", Phone: "1-570-236-7033", Name: Name{Firstname: "john", Lastname: "doe"}, Address: Address{City: "kilcoole"}},
			{ID: 2, Email: "morrison@gmail.com", Username: "mor_2314", Phone: "1-570-236-7033", Name: Name{Firstname: "david", Lastname: "morrison"}, Address: Address{City: "kilcoole"}},
			{ID: 3, Email: "kevin@gmail.com", Username: "kevinryan", Phone: "1-567-094-1345", Name: Name{Firstname: "kevin", Lastname: "ryan"}, Address: Address{City: "Cullman"}},
			{ID: 4, Email: "don@gmail.com", Username: "donero", Phone: "1-765-789-6734", Name: Name{Firstname: "don", Lastname: "romer"}, Address: Address{City: "San Antonio"}},
		},
	}
}
