// Package updater tells users when a newer kittengames release exists. The
// result of the last lookup is kept as a storage record so every command can
// print a notice without touching the network; a lookup runs again once the
// record is older than the configured interval.
package updater
