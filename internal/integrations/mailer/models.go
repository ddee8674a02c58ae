package mailer

// sendRequest тело запроса к почтовому API
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// sendResponse ответ почтового API
type sendResponse struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки почтового API
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
