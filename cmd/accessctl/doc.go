// Package main provides the entry point for accessctl.
//
// accessctl manages the API access methods the daemon uses to reach its
// API: direct, bridges and user-defined SOCKS5 or Shadowsocks proxies.
//
// Usage:
//
//	accessctl api list
//	accessctl api add socks5 remote 203.0.113.5 1080 alice secret
//	accessctl api add shadowsocks 203.0.113.5
//	accessctl api test socks5 local 1080 10.0.0.1 443
package main
