package controllers

import (
	"net/http"
	"sync"

	"github.com/angelmondragon/sgr-storefront/pkg/config"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
	"github.com/angelmondragon/sgr-storefront/pkg/maps"
)

type contactsView struct {
	Title     string
	Address   string
	Phone     string
	Email     string
	Latitude  float64
	Longitude float64
	MapURL    string
}

// ContactsPage renders the store address, phone, email and the embedded map.
// The pin is geocoded from the configured address on the first render; when
// geocoding fails, or without a Maps API key, the configured coordinates are
// used instead.
func ContactsPage(rn *Renderer, contact config.ContactConfig, mapsClient *maps.Client, logg *logger.Logger) http.HandlerFunc {
	var (
		geocodeOnce sync.Once
		lat         = contact.Latitude
		lng         = contact.Longitude
	)
	return func(w http.ResponseWriter, r *http.Request) {
		if mapsClient != nil {
			geocodeOnce.Do(func() {
				pin, err := mapsClient.Geocode(r.Context(), contact.PlaceQuery)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "geocoding store address failed", err)
					}
					return
				}
				lat, lng = pin.Latitude, pin.Longitude
			})
		}

		view := contactsView{
			Title:     "Contatti",
			Address:   contact.PlaceQuery,
			Phone:     contact.Phone,
			Email:     contact.Email,
			Latitude:  lat,
			Longitude: lng,
		}
		if mapsClient != nil {
			view.MapURL = mapsClient.EmbedURL(contact.PlaceQuery)
		}
		rn.Render(r.Context(), w, "contacts.html", view)
	}
}
