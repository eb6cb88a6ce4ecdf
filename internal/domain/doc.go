// Package domain contains the business entities of the visualization API.
//
// Domain types are persistence-agnostic. Types ending in "Input" are used for
// create/update operations; types ending in "Filter" are used for queries.
package domain
