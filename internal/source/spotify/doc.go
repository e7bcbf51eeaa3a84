// Package spotify reads playlist tracks from the Spotify Web API using the
// client-credentials flow.
//
// Every (track, artist) pair becomes one entry, ranked by the track's 1-based
// position in the playlist. Because one track may expand to several entries,
// API offsets do not line up with entry positions and the client only serves
// from the start of the playlist.
package spotify
