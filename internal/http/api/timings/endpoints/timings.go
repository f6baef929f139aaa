package endpoints

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/api"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/api/timings/packets"
	"github.com/Nixie-Tech-LLC/namaz/internal/prayer"
	"github.com/Nixie-Tech-LLC/namaz/internal/timings"
)

type TimingsController struct {
	lookup  timings.Lookuper
	city    string
	country string
}

func NewTimingsController(lookup timings.Lookuper, defaultCity, defaultCountry string) *TimingsController {
	return &TimingsController{lookup: lookup, city: defaultCity, country: defaultCountry}
}

// TimingsModule mounts the prayer-times panel, public like the timing API itself.
func TimingsModule(ctl *TimingsController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/prayer-times", ctl.getPrayerTimes)
	})
}

func responseOf(r timings.Result) packets.PrayerTimesResponse {
	resp := packets.PrayerTimesResponse{City: r.City, Country: r.Country, Date: r.DateLabel}
	for _, name := range prayer.Names {
		resp.Times = append(resp.Times, packets.PrayerTime{Name: name, Title: prayer.Title(name), Time: r.Times.Get(name)})
	}
	return resp
}

// GET /api/prayer-times?city=Karachi&country=Pakistan
func (t *TimingsController) getPrayerTimes(ctx *gin.Context) (any, *api.APIError) {
	city := ctx.DefaultQuery("city", t.city)
	country := ctx.DefaultQuery("country", t.country)

	result, err := t.lookup.Lookup(ctx.Request.Context(), city, country)
	if err != nil {
		return nil, &api.APIError{
			Code:    http.StatusBadGateway,
			Message: fmt.Sprintf("Error fetching prayer times: %v", err),
			Details: responseOf(result),
		}
	}
	return responseOf(result), nil
}
