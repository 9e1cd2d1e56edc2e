package records

// Seed data written on first access of an empty slot. Each call returns a
// fresh slice so callers may modify it.

func SeedDealers() []Dealer {
	return []Dealer{
		{ID: "1", DealerCode: "DLR001", Name: "Elite Interiors", ContactPerson: "John Smith", Email: "john@elite.com", Phone: "9876543210", City: "Mumbai", Status: DealerStatusActive},
		{ID: "2", DealerCode: "DLR002", Name: "Modern Kitchens", ContactPerson: "Sarah Wilson", Email: "sarah@modern.com", Phone: "9876543211", City: "Delhi", Status: DealerStatusActive},
	}
}

func SeedClients() []Client {
	return []Client{
		{ID: "101", ClientCode: "CLT001", DealerID: "1", Name: "Robert Downey", Phone: "9988776655", City: "Mumbai"},
		{ID: "102", ClientCode: "CLT002", DealerID: "1", Name: "Chris Evans", Phone: "9988776656", City: "Mumbai"},
	}
}

func SeedProducts() []Product {
	return []Product{
		{ID: "201", ProductCode: "PRD-W-01", Name: "3-Door Sliding Wardrobe", Category: CategoryWardrobe, BasePrice: 45000},
		{ID: "202", ProductCode: "PRD-K-01", Name: "Island Modular Kitchen", Category: CategoryKitchen, BasePrice: 125000},
		{ID: "203", ProductCode: "PRD-W-02", Name: "Hinged Glass Wardrobe", Category: CategoryWardrobe, BasePrice: 38000},
	}
}

func SeedOrders() []Order {
	return []Order{
		{
			ID:            "301",
			OrderNumber:   "ORD-2024-001",
			ClientID:      "101",
			DealerID:      "1",
			OrderDate:     "2024-03-15",
			FinalAmount:   170000,
			OrderStatus:   OrderStatusProcessing,
			PaymentStatus: PaymentStatusPartial,
			Items: []OrderItem{
				{ID: "item1", ProductID: "201", Quantity: 1, UnitPrice: 45000, TotalPrice: 45000},
				{ID: "item2", ProductID: "202", Quantity: 1, UnitPrice: 125000, TotalPrice: 125000},
			},
		},
		{
			ID:            "302",
			OrderNumber:   "ORD-2024-002",
			ClientID:      "102",
			DealerID:      "1",
			OrderDate:     "2024-03-18",
			FinalAmount:   38000,
			OrderStatus:   OrderStatusPlaced,
			PaymentStatus: PaymentStatusPending,
			Items: []OrderItem{
				{ID: "item3", ProductID: "203", Quantity: 1, UnitPrice: 38000, TotalPrice: 38000},
			},
		},
	}
}
