package service

// AppService backs the root controller.
type AppService struct{}

func NewAppService() *AppService {
	return &AppService{}
}

// GetHello returns the greeting served at the API root.
func (s *AppService) GetHello() string {
	return "Hello World!"
}
