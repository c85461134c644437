package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/bennokress/rss-feeds/internal/scraper"
	"github.com/gin-gonic/gin"
)

// Server exposes the generated feed and state files over HTTP.
type Server struct {
	dataDir string
	sources []scraper.Source
}

func NewServer(dataDir string, sources []scraper.Source) *Server {
	return &Server{dataDir: dataDir, sources: sources}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/feeds/:source/feed.xml", s.feedXML)
	r.GET("/feeds/:source/articles.tsv", s.articlesTSV)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sources", s.listSources)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// lookup resolves the :source param against the registry; file paths are
// built from the source code, never from the raw parameter.
func (s *Server) lookup(c *gin.Context) scraper.Source {
	name := c.Param("source")
	for _, src := range s.sources {
		if src.Name() == name {
			return src
		}
	}
	c.JSON(http.StatusNotFound, gin.H{
		"code":    "not_found",
		"message": "unknown source",
	})
	return nil
}

func (s *Server) feedXML(c *gin.Context) {
	s.serveFile(c, "feed.xml", "application/rss+xml; charset=utf-8")
}

func (s *Server) articlesTSV(c *gin.Context) {
	s.serveFile(c, "articles.tsv", "text/tab-separated-values; charset=utf-8")
}

func (s *Server) serveFile(c *gin.Context, name, contentType string) {
	src := s.lookup(c)
	if src == nil {
		return
	}

	path := filepath.Join(s.dataDir, src.Name(), name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "no data for this source yet",
		})
		return
	}

	c.Header("Content-Type", contentType)
	c.File(path)
}

func (s *Server) listSources(c *gin.Context) {
	data := make([]gin.H, 0, len(s.sources))
	for _, src := range s.sources {
		info := src.Feed()
		data = append(data, gin.H{
			"code":  src.Name(),
			"title": info.Title,
			"link":  info.Link,
			"feed":  "/feeds/" + src.Name() + "/feed.xml",
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}
