package model

// KnownAppLobs lists the line-of-business labels offered by the dashboard.
// Other labels are accepted.
var KnownAppLobs = []string{
	"Finance", "HR", "Analytics", "DevOps",
	"Marketing", "Sales", "Operations", "Engineering",
}

// Server is a host owned by an organization.
type Server struct {
	ID                ID     `json:"id" gorm:"primaryKey"`
	HostName          string `json:"hostName"`
	Domain            string `json:"domain"`
	AppLob            string `json:"appLob"`
	Wfguid            string `json:"wfguid"`
	Appid             string `json:"appid"`
	AppSupportedBy    string `json:"appSupportedBy"`
	AppManagedBy      string `json:"appManagedBy"`
	DeviceSupportedBy string `json:"deviceSupportedBy"`
	DeviceManagedBy   string `json:"deviceManagedBy"`
	IsActive          bool   `json:"isActive"`
	OrgID             ID     `json:"orgId"`
}

func (Server) TableName() string {
	return "servers"
}

func (s *Server) Resource() Resource { return ResourceServers }
func (s *Server) RecordID() ID       { return s.ID }
func (s *Server) SetRecordID(id ID)  { s.ID = id }

func (s *Server) Clone() Record {
	c := *s
	return &c
}

func (s *Server) Validate() error {
	var errs FieldErrors
	errs = requireString(errs, "hostName", s.HostName)
	errs = requireReference(errs, "orgId", s.OrgID)
	return errs.OrNil()
}
