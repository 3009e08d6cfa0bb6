// Package models defines the core data structures for identities,
// sessions, reset tokens, and road-defect reports.
package models

// Identity represents a registered user of the application.
type Identity struct {
	// ID is the unique identifier for the identity, assigned at registration.
	ID string `json:"id"`
	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email identifies the account. Unique case-insensitively.
	Email string `json:"email"`
	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`
	// Avatar is an optional image URL.
	Avatar string `json:"avatar,omitempty"`
	// Credential is the stored password, cleartext. The snapshot store
	// simulates a backend, it does not harden one.
	Credential string `json:"credential,omitempty"`
}

// Public returns a copy of the identity with the credential blanked,
// safe to hand to callers and to persist in session snapshots.
func (i Identity) Public() Identity {
	i.Credential = ""
	return i
}

// SessionTier indicates which durability tier holds the active session.
type SessionTier int

const (
	// TierNone means no session is active.
	TierNone SessionTier = iota
	// TierRemembered survives process restarts.
	TierRemembered
	// TierEphemeral lives only for the current run.
	TierEphemeral
)

// ReportStatus is the repair lifecycle state of a report.
type ReportStatus string

const (
	// StatusPendiente is the initial state of every report.
	StatusPendiente ReportStatus = "pendiente"
	// StatusEnProceso marks a repair in progress.
	StatusEnProceso ReportStatus = "en_proceso"
	// StatusReparado marks a completed repair.
	StatusReparado ReportStatus = "reparado"
)

// ReportSeverity grades how dangerous a road defect is.
type ReportSeverity string

const (
	SeverityBaja    ReportSeverity = "baja"
	SeverityMedia   ReportSeverity = "media"
	SeverityAlta    ReportSeverity = "alta"
	SeverityCritica ReportSeverity = "critica"
)

// GeoLocation is a WGS84 coordinate pair for map display.
type GeoLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Usuario is the ownership stamp embedded in a report at creation time.
type Usuario struct {
	// Nombre is the display name shown next to the report.
	Nombre string `json:"nombre"`
	// Avatar is an optional image URL.
	Avatar string `json:"avatar,omitempty"`
	// ID links back to the creating identity. The anonymous sentinel
	// id is used when no session was active at creation.
	ID string `json:"id,omitempty"`
}

// AnonymousID is the sentinel owner id for reports created without a session.
const AnonymousID = "anonymous"

// PlaceholderAvatar is the default avatar assigned at registration
// and to the anonymous sentinel.
const PlaceholderAvatar = "/placeholder.svg?height=40&width=40"

// AnonymousUsuario returns the ownership stamp for sessionless creation.
// Reports owned by it can never pass the delete authorization check.
func AnonymousUsuario() Usuario {
	return Usuario{
		Nombre: "Usuario Anónimo",
		Avatar: PlaceholderAvatar,
		ID:     AnonymousID,
	}
}

// Report is a single citizen-submitted road-defect record.
type Report struct {
	// ID is unique and creation-ordered.
	ID int64 `json:"id"`
	// Titulo is the short headline of the defect.
	Titulo string `json:"titulo"`
	// Direccion is the street address of the defect.
	Direccion string `json:"direccion"`
	// Fecha is the creation date in YYYY-MM-DD form.
	Fecha string `json:"fecha"`
	// Estado is the repair lifecycle state. Always "pendiente" at creation.
	Estado ReportStatus `json:"estado"`
	// Severidad grades the defect.
	Severidad ReportSeverity `json:"severidad"`
	// Descripcion is the free-form description.
	Descripcion string `json:"descripcion"`
	// Usuario is the ownership stamp set at creation.
	Usuario Usuario `json:"usuario"`
	// Imagen is an optional photo URL.
	Imagen string `json:"imagen,omitempty"`
	// Comentarios counts comments. No comment bodies are stored.
	Comentarios int `json:"comentarios"`
	// Votos counts votes. Repeat votes by one identity are not deduplicated.
	Votos int `json:"votos"`
	// Comuna is the optional administrative district.
	Comuna string `json:"comuna,omitempty"`
	// Ubicacion is the optional map coordinate of the defect.
	Ubicacion *GeoLocation `json:"ubicacion,omitempty"`
}

// ReportDraft carries the caller-supplied fields of a new report.
// Everything else (id, fecha, estado, counters, usuario) is stamped
// by the report store at creation.
type ReportDraft struct {
	Titulo      string         `json:"titulo" validate:"required"`
	Direccion   string         `json:"direccion" validate:"required"`
	Severidad   ReportSeverity `json:"severidad" validate:"required,oneof=baja media alta critica"`
	Descripcion string         `json:"descripcion" validate:"required"`
	Imagen      string         `json:"imagen,omitempty"`
	Comuna      string         `json:"comuna,omitempty"`
	Ubicacion   *GeoLocation   `json:"ubicacion,omitempty"`
}
