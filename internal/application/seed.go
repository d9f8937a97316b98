package application

// DefaultRooms is the catalog a fresh store starts with.
func DefaultRooms() []Room {
	return []Room{
		{ID: "C01", Name: "Classroom 1A", Capacity: 35},
		{ID: "C02", Name: "Classroom 1B", Capacity: 35},
		{ID: "C03", Name: "Classroom 1C", Capacity: 35},
		{ID: "D01", Name: "Hall", Capacity: 1200},
		{ID: "D02", Name: "Covered Playground", Capacity: 100},
	}
}
