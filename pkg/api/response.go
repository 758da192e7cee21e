package api

// Response is the envelope every endpoint answers with. No endpoint fills all
// fields.
type Response struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message,omitempty"`
	Error            string   `json:"error,omitempty"`
	Redirect         string   `json:"redirect,omitempty"`
	CertificateID    string   `json:"certificateId,omitempty"`
	PDFHTML          string   `json:"pdfHtml,omitempty"`
	Verified         *bool    `json:"verified,omitempty"`
	ExtractedData    Fields   `json:"extractedData"`
	MismatchedFields []string `json:"mismatchedFields,omitempty"`
}

// Status is the blockchain connectivity report.
type Status struct {
	Success     bool   `json:"success"`
	Connected   bool   `json:"connected"`
	LatestBlock uint64 `json:"latestBlock,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Certificate is one issued certificate as listed by the API.
type Certificate struct {
	ID            string `json:"certificate_id"`
	UID           string `json:"uid"`
	CandidateName string `json:"candidate_name"`
	CourseName    string `json:"course_name"`
	OrgName       string `json:"org_name"`
	IPFSHash      string `json:"ipfs_hash"`
}

// CertificateList is the response of the certificate listing endpoint.
type CertificateList struct {
	Success      bool          `json:"success"`
	Certificates []Certificate `json:"certificates"`
	Error        string        `json:"error,omitempty"`
}
