package actions

import (
	"net/http"
)

func (as *ActionSuite) Test_HomeHandler() {
	res := as.JSON("/").Get()
	as.Equal(http.StatusOK, res.Code)
	as.Contains(res.Body.String(), "Welcome")
}

func (as *ActionSuite) Test_AuthnRequired() {
	// no token
	res := as.JSON("/carriers/").Get()
	as.Equal(http.StatusUnauthorized, res.Code)

	// bad token
	req := as.JSON("/carriers/")
	req.Headers["Authorization"] = "Bearer not-a-token"
	res = req.Get()
	as.Equal(http.StatusUnauthorized, res.Code)
}
