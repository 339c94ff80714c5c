// Package formats parses the data files of the game: terrain profiles.
package formats
