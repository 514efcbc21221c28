package server

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	s.echo.POST("/scrape", s.handleScrape)
	s.echo.GET("/classify", s.handleClassify)
	s.echo.GET("/posts", s.handlePosts)
	s.echo.POST("/takeaways", s.handleTakeaways)
}
