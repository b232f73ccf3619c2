// Package service provides the access method operations.
//
// This package contains:
//
//   - Builder: BuildSocks5Local, BuildSocks5Remote, BuildShadowsocks turn
//     typed field values into validated descriptors
//   - AddSelection: one variant per leaf of the "add" command tree
//   - AccessMethods: list/add/remove/enable/use against the daemon
//   - Prober: local reachability check through a descriptor
//
// The daemon's management interface is consumed through the
// ManagementClient interface. A connection is opened per operation via a
// Connector and closed before the operation returns.
package service
