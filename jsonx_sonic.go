package main

import "github.com/bytedance/sonic"

var fastJSON = sonic.ConfigStd

func fastJSONMarshalIndent(v any) ([]byte, error) {
	return fastJSON.MarshalIndent(v, "", "  ")
}
