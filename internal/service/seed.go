package service

import "github.com/bachesapp/bachesapp/internal/models"

// seedReports returns the example reports loaded into an empty store so
// a fresh install has something to browse and to place on the map.
func seedReports() []models.Report {
	return []models.Report{
		{
			ID:        1,
			Titulo:    "Bache profundo en Avenida 6N",
			Direccion: "Avenida 6N #25-10, El Bosque",
			Fecha:     "2025-04-15",
			Estado:    models.StatusPendiente,
			Severidad: models.SeverityAlta,
			Descripcion: "Bache de aproximadamente 50cm de diámetro y 15cm de profundidad. " +
				"Representa un peligro para motociclistas y vehículos pequeños. " +
				"Se ha reportado un accidente menor en la zona.",
			Usuario:     models.Usuario{Nombre: "Carlos Martínez", Avatar: models.PlaceholderAvatar, ID: "1"},
			Imagen:      "/images/bache1.png",
			Comentarios: 3,
			Votos:       12,
			Ubicacion:   &models.GeoLocation{Lat: 3.4516, Lng: -76.532},
		},
		{
			ID:        2,
			Titulo:    "Múltiples baches en Calle 5",
			Direccion: "Calle 5 entre Carreras 39 y 42, San Fernando",
			Fecha:     "2025-04-14",
			Estado:    models.StatusEnProceso,
			Severidad: models.SeverityMedia,
			Descripcion: "Serie de 5 baches consecutivos de tamaño mediano. " +
				"Dificultan el tránsito fluido y causan congestión en horas pico. " +
				"La vía es muy transitada por ser ruta de buses.",
			Usuario:     models.Usuario{Nombre: "María López", Avatar: models.PlaceholderAvatar, ID: "2"},
			Imagen:      "/images/bache2.png",
			Comentarios: 7,
			Votos:       18,
			Ubicacion:   &models.GeoLocation{Lat: 3.4372, Lng: -76.5225},
		},
		{
			ID:        3,
			Titulo:    "Hundimiento en Avenida Roosevelt",
			Direccion: "Avenida Roosevelt con Carrera 34, San Fernando",
			Fecha:     "2025-04-13",
			Estado:    models.StatusReparado,
			Severidad: models.SeverityCritica,
			Descripcion: "Hundimiento severo del pavimento que abarca casi todo el carril. " +
				"Fue necesario cerrar parcialmente la vía. " +
				"Reparado el 16 de abril por cuadrilla municipal.",
			Usuario:     models.Usuario{Nombre: "Juan Pérez", Avatar: models.PlaceholderAvatar, ID: "3"},
			Imagen:      "/images/bache3.png",
			Comentarios: 15,
			Votos:       32,
			Ubicacion:   &models.GeoLocation{Lat: 3.428, Lng: -76.54},
		},
		{
			ID:        4,
			Titulo:    "Bache en entrada de Ciudad Jardín",
			Direccion: "Calle 16 con Carrera 100, Ciudad Jardín",
			Fecha:     "2025-04-12",
			Estado:    models.StatusPendiente,
			Severidad: models.SeverityBaja,
			Descripcion: "Bache pequeño pero en crecimiento. Ubicado justo en la entrada " +
				"del barrio, afecta principalmente a vehículos que entran a alta velocidad.",
			Usuario:     models.Usuario{Nombre: "Ana Gómez", Avatar: models.PlaceholderAvatar, ID: "4"},
			Imagen:      "/images/bache4.png",
			Comentarios: 2,
			Votos:       5,
			Ubicacion:   &models.GeoLocation{Lat: 3.3729, Lng: -76.538},
		},
		{
			ID:        5,
			Titulo:    "Deterioro severo en Autopista Sur",
			Direccion: "Autopista Sur km 2, salida sur de Cali",
			Fecha:     "2025-04-11",
			Estado:    models.StatusEnProceso,
			Severidad: models.SeverityAlta,
			Descripcion: "Tramo de 20 metros con deterioro severo del pavimento. " +
				"Afecta principalmente a vehículos de carga pesada. " +
				"Se ha programado reparación para el próximo fin de semana.",
			Usuario:     models.Usuario{Nombre: "Roberto Sánchez", Avatar: models.PlaceholderAvatar, ID: "5"},
			Imagen:      "/images/bache5.png",
			Comentarios: 9,
			Votos:       27,
			Ubicacion:   &models.GeoLocation{Lat: 3.395, Lng: -76.51},
		},
		{
			ID:        6,
			Titulo:    "Bache peligroso en Avenida Colombia",
			Direccion: "Avenida Colombia con Calle 10, Centro",
			Fecha:     "2025-04-10",
			Estado:    models.StatusPendiente,
			Severidad: models.SeverityAlta,
			Descripcion: "Bache profundo que ha causado daños a varios vehículos. " +
				"Se encuentra en una vía principal con alto tráfico. Requiere atención urgente.",
			Usuario:     models.Usuario{Nombre: "Laura Jiménez", Avatar: models.PlaceholderAvatar, ID: "6"},
			Imagen:      "/images/bache6.png",
			Comentarios: 11,
			Votos:       23,
			Ubicacion:   &models.GeoLocation{Lat: 3.4489, Lng: -76.5284},
		},
	}
}
