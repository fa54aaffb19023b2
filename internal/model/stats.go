package model

// DashboardStats are the headline figures shown on the admin dashboard.
// The zero value is what the dashboard shows when the booking API is down.
type DashboardStats struct {
	MonthlyRevenue      float64 `json:"monthlyRevenue"`
	RevenueChange       float64 `json:"revenueChange"`
	MonthlyReservations int     `json:"monthlyReservations"`
	MonthlyStays        int     `json:"monthlyStays"`
	ReservationsChange  float64 `json:"reservationsChange"`
	OccupancyRate       float64 `json:"occupancyRate"`
	AvailableCabins     int     `json:"availableCabins"`
	CheckInsToday       int     `json:"checkInsToday"`
	CheckOutsToday      int     `json:"checkOutsToday"`
	PendingReservations int     `json:"pendingReservations"`
	PendingPayments     float64 `json:"pendingPayments"`
	AverageRating       float64 `json:"averageRating"`
	PendingReviews      int     `json:"pendingReviews"`
	BreakfastPercentage float64 `json:"breakfastPercentage"`
	TotalCabins         int     `json:"totalCabins"`
	TotalReviews        int     `json:"totalReviews"`
}
