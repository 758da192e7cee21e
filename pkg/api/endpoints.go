package api

const (
	EndpointSetRole             = "/api/set-role"
	EndpointLogin               = "/api/login"
	EndpointRegister            = "/api/register"
	EndpointGenerateCertificate = "/api/generate-certificate"
	EndpointViewCertificate     = "/api/view-certificate"
	EndpointVerifyCertificateID = "/api/verify-certificate-id"
	EndpointVerifyPDF           = "/api/verify-pdf"
	EndpointBlockchainStatus    = "/api/blockchain-status"
	EndpointCertificates        = "/api/certificates"
)

// UploadField is the multipart field name carrying an uploaded certificate.
const UploadField = "pdf_file"
