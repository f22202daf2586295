package calendar

type CreateHolidayRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Type        string  `json:"type" binding:"required,oneof=national company optional religious"`
	IsRecurring bool    `json:"is_recurring"`
	Description *string `json:"description"`
}

type HolidayResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	IsRecurring bool    `json:"is_recurring"`
	Description *string `json:"description,omitempty"`
	Source      string  `json:"source"`
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		Type:        h.Type,
		IsRecurring: h.IsRecurring,
		Description: h.Description,
		Source:      "table",
	}
}
