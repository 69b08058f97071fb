package model

type Event struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	StartsAt         string `json:"starts_at"`
	EndsAt           string `json:"ends_at"`
	AttendancePoints uint64 `json:"attendance_points"`
}

type GetEventsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetEventsResponse struct {
	Events []Event `json:"events"`
}

type CreateEventRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	StartsAt         string `json:"starts_at"`
	EndsAt           string `json:"ends_at"`
	AttendancePoints uint64 `json:"attendance_points"`
}

type CreateEventResponse struct {
	ID string `json:"id"`
}

type RegisterEventRequest struct {
	EventID string `json:"event_id"`
}

type RegisterEventResponse struct{}

type CancelEventRegistrationRequest struct {
	EventID string `json:"event_id"`
}

type CancelEventRegistrationResponse struct{}

type ConfirmAttendanceRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

type ConfirmAttendanceResponse struct{}

type UnmarkAttendanceRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

type UnmarkAttendanceResponse struct{}
