package record

import "errors"

var (
	ErrSignatureRequired = errors.New("please provide a signature before saving")
	ErrProjectRequired   = errors.New("please select a project")
	ErrSignerRequired    = errors.New("signer name is required")
	ErrUnknownType       = errors.New("unknown signature type")
	ErrUnknownRole       = errors.New("unknown signer role")
)
