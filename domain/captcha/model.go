package captcha

// GenerateResponse carries a fresh challenge. The code is returned in the
// clear and the frontend renders it as a distorted image.
type GenerateResponse struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// VerifyRequest is the answer submission payload
type VerifyRequest struct {
	Token  string `json:"token"`
	Answer string `json:"answer"`
}

// VerifyResponse reports the outcome of a verification
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
