package authutils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"isnad-backend/config"
)

func TestGetToken(t *testing.T) {
	conf := new(config.Configuration)
	conf.Auth.JWTSecret = "unit-test-secret"
	conf.Auth.JWTExpireInSec = 3600
	config.Conf = conf

	t.Run(`issued token carries identity claims check`, func(t *testing.T) {
		tokenString, err := GetToken("user-1", "Reviewer One", "finance")
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(conf.Auth.JWTSecret), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		require.Equal(t, "user-1", claims["sub"])
		require.Equal(t, "Reviewer One", claims["name"])
		require.Equal(t, "finance", claims["department"])

		exp, err := claims.GetExpirationTime()
		require.NoError(t, err)
		iat, err := claims.GetIssuedAt()
		require.NoError(t, err)
		require.Equal(t, int64(3600), exp.Unix()-iat.Unix())
	})

	t.Run(`wrong secret fails verification check`, func(t *testing.T) {
		tokenString, err := GetToken("user-1", "Reviewer One", "finance")
		require.NoError(t, err)

		_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte("another-secret"), nil
		})
		require.Error(t, err)
	})
}
