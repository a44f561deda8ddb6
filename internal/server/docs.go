package server

// @title OutOfSchool Catalog API
// @version 1.0
// @description Search and list endpoints of the out-of-school education catalog

// @contact.name API Support
// @contact.email support@outofschool.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
