package request

type CreateBookingRequest struct {
	ServiceID       string `json:"service_id" validate:"required,uuid4"`
	ArtistType      string `json:"artist_type" validate:"required,oneof=junior senior lead"`
	Location        string `json:"location" validate:"required"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	SlotStart       string `json:"slot_start" validate:"required,datetime=15:04"`
	// Guest is required when the request carries no authenticated user.
	Guest *GuestInfoRequest `json:"guest,omitempty"`
}

type AvailabilityRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Location   string `json:"location" validate:"required"`
	ArtistType string `json:"artist_type" validate:"required,oneof=junior senior lead"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}
