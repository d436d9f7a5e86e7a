// Package validation checks and normalizes delivery entry and registration
// input before anything touches storage.
package validation

import (
	"fmt"
	"strings"
	"time"

	"tanker-queue/internal/gateservice/core"
	"tanker-queue/pkg/models"
)

// Accepted order date layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type EntryValidator struct{}

func NewEntryValidator() *EntryValidator {
	return &EntryValidator{}
}

// ValidateEntry checks required fields, defaults the optional ones and
// coerces the order date. All problems are reported together in one
// ValidationError so the caller sees the full field list.
func (v *EntryValidator) ValidateEntry(req *models.CreateEntryRequest) (*models.Entry, error) {
	missing := []string{}

	requireString := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	requireString("order_number", req.OrderNumber)
	requireString("company_name", req.CompanyName)
	requireString("customer_name", req.CustomerName)
	requireString("order_date", req.OrderDate)
	requireString("truck_number", req.TruckNumber)
	requireString("driver_name", req.DriverName)

	if req.NumberOfDrums == nil {
		missing = append(missing, "number_of_drums")
	}
	if req.AmountInLiters == nil {
		missing = append(missing, "amount_in_liters")
	}
	if req.TankNumber == nil {
		missing = append(missing, "tank_number")
	}
	if len(missing) > 0 {
		return nil, &core.ValidationError{Fields: missing}
	}

	orderDate, err := parseOrderDate(req.OrderDate)
	if err != nil {
		return nil, &core.ValidationError{Fields: []string{"order_date"}}
	}
	if *req.NumberOfDrums < 0 {
		return nil, &core.ValidationError{Fields: []string{"number_of_drums"}}
	}
	if *req.AmountInLiters < 0 {
		return nil, &core.ValidationError{Fields: []string{"amount_in_liters"}}
	}
	if *req.TankNumber < 1 || *req.TankNumber > 6 {
		return nil, &core.ValidationError{Fields: []string{"tank_number"}}
	}

	return &models.Entry{
		QueueNumber:       strings.TrimSpace(req.QueueNumber),
		OrderNumber:       strings.TrimSpace(req.OrderNumber),
		CompanyName:       strings.TrimSpace(req.CompanyName),
		CustomerName:      strings.TrimSpace(req.CustomerName),
		OrderDate:         orderDate,
		TruckNumber:       strings.TrimSpace(req.TruckNumber),
		TrailerNumber:     strings.TrimSpace(req.TrailerNumber),
		DriverName:        strings.TrimSpace(req.DriverName),
		DriverPhoneNumber: strings.TrimSpace(req.DriverPhoneNumber),
		NumberOfDrums:     *req.NumberOfDrums,
		AmountInLiters:    *req.AmountInLiters,
		TankNumber:        *req.TankNumber,
	}, nil
}

// ValidateRegistration checks the registration form. Vehicle number and
// driver name are required; the remaining fields default to empty.
func (v *EntryValidator) ValidateRegistration(req *models.RegisterVehicleRequest) (*models.Registration, error) {
	missing := []string{}
	if strings.TrimSpace(req.VehicleNumber) == "" {
		missing = append(missing, "vehicle_number")
	}
	if strings.TrimSpace(req.DriverName) == "" {
		missing = append(missing, "driver_name")
	}
	if len(missing) > 0 {
		return nil, &core.ValidationError{Fields: missing}
	}

	return &models.Registration{
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
		DriverName:    strings.TrimSpace(req.DriverName),
		DriverPhone:   strings.TrimSpace(req.DriverPhone),
		TrailerNumber: strings.TrimSpace(req.TrailerNumber),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CompanyName:   strings.TrimSpace(req.CompanyName),
	}, nil
}

func parseOrderDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
