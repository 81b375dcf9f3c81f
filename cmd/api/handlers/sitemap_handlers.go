package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/services"
)

// SitemapHandler godoc
// @Summary      sitemap.xml
// @Tags         seo
// @Produce      xml
// @Success      200  {string}  string
// @Router       /sitemap.xml [get]
func SitemapHandler(svc *services.SitemapService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := svc.Build(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
	}
}
