// SPDX-License-Identifier: MPL-2.0

// Package plugin finds and loads task plugins. A plugin is a directory with
// the .twplugin suffix carrying a plugin.cue manifest that declares an
// identity plus task and global parameter contributions. Plugins named
// explicitly in the configuration load first, in configuration order;
// plugins discovered in the search directories follow, ordered by the lock
// file and then by discovery order.
package plugin
