// Package api provides the customer REST API.
//
//	@title			Customer API
//	@version		1.0
//	@description	Create, list, replace and delete customers.
//	@BasePath		/
package api
