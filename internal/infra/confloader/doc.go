// Package confloader layers configuration sources on top of koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables
//  3. Configuration file
//  4. Default values (WithDefaults)
package confloader
