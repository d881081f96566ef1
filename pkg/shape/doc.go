// Package shape defines the shape model for GeoMaster.
// Shapes are immutable values built and validated by Build; once built,
// every numeric field is strictly positive and finite.
package shape
