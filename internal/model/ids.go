package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseMovieID parses "1817" as well as the slugged "1817-phone-booth"
func ParseMovieID(param string) (int64, error) {
	idStr, _, _ := strings.Cut(param, "-")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie ID '%s'", param)
	}
	return id, nil
}

// ParseTheMovieDBLink returns the TMDB ID from a TMDB movie URL such as
// https://www.themoviedb.org/movie/1817/ or https://www.themoviedb.org/movie/1817-phone-booth
func ParseTheMovieDBLink(u *url.URL) (int64, error) {
	if !strings.HasPrefix(u.Path, "/movie/") {
		return 0, errors.New("could not parse TheMovieDB URL")
	}
	id, err := ParseMovieID(strings.Trim(strings.TrimPrefix(u.Path, "/movie/"), "/"))
	if err != nil {
		return 0, errors.New("could not parse TheMovieDB URL")
	}
	return id, nil
}
