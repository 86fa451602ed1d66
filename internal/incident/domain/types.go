// Package domain defines the types flowing through one incident
// submission: the citizen-facing request shape, the fixed-format payload
// sent to the municipality endpoint, and the result returned to the
// caller.
package domain

// UserData is the caller identity attached to a submission.
type UserData struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// Category identifies the incident type selected by the citizen.
// EventCallDesc is the fixed description used when no custom text is
// supplied.
type Category struct {
	ID            int    `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Text          string `json:"text" validate:"required"`
	ImageURL      string `json:"image_url"`
	EventCallDesc string `json:"event_call_desc" validate:"required"`
}

// Street is the incident location. HouseNumber is passed through
// verbatim; alphanumeric and Hebrew suffixes are valid.
type Street struct {
	ID          int    `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	ImageURL    string `json:"image_url"`
	HouseNumber string `json:"house_number" validate:"required"`
}

// ImageAttachment is an optional evidence image, carried base64-encoded
// with its declared metadata. It is validated once and then decoded for
// multipart embedding.
type ImageAttachment struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size"`
	Data        string `json:"data" validate:"required"`
}

// IncidentSubmission is one complete inbound request. Created per
// request, immutable, discarded after one submission attempt.
type IncidentSubmission struct {
	UserData   UserData         `json:"user_data" validate:"required"`
	Category   Category         `json:"category" validate:"required"`
	Street     Street           `json:"street" validate:"required"`
	CustomText string           `json:"custom_text,omitempty"`
	ExtraFiles *ImageAttachment `json:"extra_files,omitempty"`
}

// MunicipalityPayload is the fixed-shape record the SharePoint endpoint
// expects inside the multipart "json" field. The first seven fields are
// municipality constants and never vary across requests.
type MunicipalityPayload struct {
	EventCallSourceID int    `json:"eventCallSourceId"`
	CityCode          string `json:"cityCode"`
	CityDesc          string `json:"cityDesc"`
	EventCallCenterID string `json:"eventCallCenterId"`
	StreetCode        string `json:"streetCode"`
	StreetDesc        string `json:"streetDesc"`
	ContactUsType     string `json:"contactUsType"`

	EventCallDesc   string `json:"eventCallDesc"`
	HouseNumber     string `json:"houseNumber"`
	CallerFirstName string `json:"callerFirstName"`
	CallerLastName  string `json:"callerLastName"`
	CallerTZ        string `json:"callerTZ"`
	CallerPhone1    string `json:"callerPhone1"`
	CallerEmail     string `json:"callerEmail"`
}

// DecodedFile is a validated attachment decoded to raw bytes, ready for
// multipart embedding. Ownership transfers to the multipart builder for
// the duration of one request.
type DecodedFile struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// FileInfo echoes attachment metadata back to the caller.
type FileInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// SubmissionResult is the outcome of one submission attempt. Constructed
// once per request and returned to the caller; never persisted.
type SubmissionResult struct {
	Success       bool                   `json:"success"`
	TicketID      string                 `json:"ticket_id"`
	CorrelationID string                 `json:"correlation_id"`
	HasFile       bool                   `json:"has_file"`
	FileInfo      *FileInfo              `json:"file_info,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}
