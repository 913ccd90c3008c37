package download

// Package download implements the streaming fetcher: a single GET whose body is
// copied to disk chunk by chunk while a progress reporter is advanced, so memory
// use stays bounded by the chunk size regardless of the file size.
