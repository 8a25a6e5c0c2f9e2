package web

import (
	"errors"
	"regexp"
)

var userNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][\w-]*$`)

func validateUserName(name string) error {
	var err error
	if name == "" {
		return errors.New("username must not be empty")
	}
	if len(name) > 50 {
		err = errors.Join(err, errors.New("username is longer than 50 characters"))
	}
	if !userNameRegexp.MatchString(name) {
		err = errors.Join(err, errors.New("username must start with a letter or digit and contain only letters, digits, '_' and '-'"))
	}
	return err
}
