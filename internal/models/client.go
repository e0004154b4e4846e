package models

import "time"

// ClientStatus is the sales-funnel stage of a lead.
type ClientStatus string

const (
	ClientNewLead      ClientStatus = "Novo Lead"
	ClientInContact    ClientStatus = "Em Contacto"
	ClientProposalSent ClientStatus = "Proposta Enviada"
	ClientConsultation ClientStatus = "Consultoria Marcada"
	ClientConverted    ClientStatus = "Convertido"
	ClientReengage     ClientStatus = "Repescagem"
	ClientLost         ClientStatus = "Perdido"
)

// Client is a lead tracked through the funnel. ResponsibleID is nil while the
// lead is unclaimed; ResponsibleName is filled from clients_with_users.
type Client struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Email                  string       `json:"email"`
	Phone                  *string      `json:"phone,omitempty"`
	CompanyPhone           *string      `json:"companyPhone,omitempty"`
	InternalContact        *string      `json:"internalContact,omitempty"`
	InternalContactPhone   *string      `json:"internalContactPhone,omitempty"`
	InternalContactRole    *string      `json:"internalContactRole,omitempty"`
	ClientResponsibleName  *string      `json:"clientResponsibleName,omitempty"`
	ClientResponsiblePhone *string      `json:"clientResponsiblePhone,omitempty"`
	Status                 ClientStatus `json:"status"`
	ResponsibleID          *string      `json:"responsibleId,omitempty"`
	ResponsibleName        string       `json:"responsible"`
	Services               []string     `json:"services"`
	Location               string       `json:"location"`   // "Maputo Cidade" | "Maputo Província"
	Provenance             string       `json:"provenance"` // "Redes Sociais" | "Google" | ...
	LastActivity           string       `json:"lastActivity"`
	CreatedAt              time.Time    `json:"createdAt"`
}
