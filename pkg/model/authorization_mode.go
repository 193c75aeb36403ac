package model

//go:generate go run github.com/dmarkham/enumer -type AuthorizationMode -trimprefix AuthorizationMode -transform snake -json -text -sql -output authorization_mode.gen.go

// AuthorizationMode selects how an organization authorizes its members.
type AuthorizationMode int

const (
	AuthorizationModeFunctional AuthorizationMode = iota
	AuthorizationModeAdGroup
)
