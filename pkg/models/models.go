package models

import "time"

// Entry is one recorded delivery: a truck arriving at the gate with a
// day-scoped queue number. The same truck number may appear in any number
// of entries, one per delivery.
type Entry struct {
	ID                string    `json:"id"`
	QueueNumber       string    `json:"queue_number"`
	OrderNumber       string    `json:"order_number"`
	CompanyName       string    `json:"company_name"`
	CustomerName      string    `json:"customer_name"`
	OrderDate         time.Time `json:"order_date"`
	TruckNumber       string    `json:"truck_number"`
	TrailerNumber     string    `json:"trailer_number"`
	DriverName        string    `json:"driver_name"`
	DriverPhoneNumber string    `json:"driver_phone_number"`
	NumberOfDrums     int       `json:"number_of_drums"`
	AmountInLiters    float64   `json:"amount_in_liters"`
	TankNumber        int       `json:"tank_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Registration is a permanent vehicle record keyed by a globally unique,
// case-insensitive vehicle number. Used to pre-fill future entries.
type Registration struct {
	ID            string    `json:"id"`
	VehicleNumber string    `json:"vehicle_number"`
	DriverName    string    `json:"driver_name"`
	DriverPhone   string    `json:"driver_phone"`
	TrailerNumber string    `json:"trailer_number"`
	CustomerName  string    `json:"customer_name"`
	CompanyName   string    `json:"company_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateEntryRequest carries the form input for a new delivery entry.
// Numeric fields are pointers so that absent and zero can be told apart
// during validation.
type CreateEntryRequest struct {
	QueueNumber       string   `json:"queue_number,omitempty"`
	OrderNumber       string   `json:"order_number"`
	CompanyName       string   `json:"company_name"`
	CustomerName      string   `json:"customer_name"`
	OrderDate         string   `json:"order_date"`
	TruckNumber       string   `json:"truck_number"`
	TrailerNumber     string   `json:"trailer_number,omitempty"`
	DriverName        string   `json:"driver_name"`
	DriverPhoneNumber string   `json:"driver_phone_number,omitempty"`
	NumberOfDrums     *int     `json:"number_of_drums"`
	AmountInLiters    *float64 `json:"amount_in_liters"`
	TankNumber        *int     `json:"tank_number"`
}

type RegisterVehicleRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	DriverName    string `json:"driver_name"`
	DriverPhone   string `json:"driver_phone,omitempty"`
	TrailerNumber string `json:"trailer_number,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
}

type UpdateRegistrationRequest struct {
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	DriverName    *string `json:"driver_name,omitempty"`
	DriverPhone   *string `json:"driver_phone,omitempty"`
	TrailerNumber *string `json:"trailer_number,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CompanyName   *string `json:"company_name,omitempty"`
}

type QueueNumberResponse struct {
	QueueNumber string `json:"queue_number"`
}

type CheckPlateResponse struct {
	Exists  bool   `json:"exists"`
	Vehicle *Entry `json:"vehicle,omitempty"`
}

type EntryListResponse struct {
	Vehicles []*Entry `json:"vehicles"`
}

type RegistrationListResponse struct {
	Vehicles []*Registration `json:"vehicles"`
}

type StatusResponse struct {
	Message string `json:"message"`
}

// EntryCreatedMessage is published on the notifications fanout exchange
// after a successful insert so dashboards can refresh.
type EntryCreatedMessage struct {
	EntryID     string    `json:"entry_id"`
	QueueNumber string    `json:"queue_number"`
	TruckNumber string    `json:"truck_number"`
	CompanyName string    `json:"company_name"`
	DriverName  string    `json:"driver_name"`
	CreatedAt   time.Time `json:"created_at"`
}
