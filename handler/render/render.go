package render

import (
	"encoding/json"
	"net/http"

	"creditmarket/handler/codes"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// JSON render v as {"data": v}
func JSON(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusOK, dataResponse{Data: v})
}

// Error render err with the status and code derived from it
func Error(w http.ResponseWriter, err error) {
	write(w, codes.HTTPStatus(err), errorResponse{Code: codes.Get(err), Msg: err.Error()})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusBadRequest, errorResponse{Code: codes.InvalidArguments, Msg: err.Error()})
}

// Unauthorized request without a logged in caller
func Unauthorized(w http.ResponseWriter, err error) {
	write(w, http.StatusUnauthorized, errorResponse{Code: codes.Unauthorized, Msg: err.Error()})
}

// Unavailable dependency down
func Unavailable(w http.ResponseWriter, err error) {
	write(w, http.StatusServiceUnavailable, errorResponse{Code: http.StatusServiceUnavailable, Msg: err.Error()})
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusNotFound, errorResponse{Code: http.StatusNotFound, Msg: err.Error()})
}
