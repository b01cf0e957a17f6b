// Package docs provides generated OpenAPI documentation.
//
// hidef API
//
//	@title			hidef API
//	@version		1.0
//	@description	Interactive dictionary API: define terms, follow clicked words in context, inspect caches and oracle calls.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/hidef
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/hidef/serve.go -o ./swagger --parseDependency --parseInternal
